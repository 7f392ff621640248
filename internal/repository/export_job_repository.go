package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/sci-crm-api/internal/models"
)

const exportJobKeyPrefix = "sci-crm:export:"

// ExportJobRepository keeps export job state in Redis with a TTL so finished
// jobs expire on their own.
type ExportJobRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExportJobRepository constructs a Redis-backed job registry.
func NewExportJobRepository(client *redis.Client, ttl time.Duration) *ExportJobRepository {
	return &ExportJobRepository{client: client, ttl: ttl}
}

// Save stores job, replacing any previous state.
func (r *ExportJobRepository) Save(ctx context.Context, job *models.ExportJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal export job %s: %w", job.ID, err)
	}
	if err := r.client.Set(ctx, exportJobKeyPrefix+job.ID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set export job %s: %w", job.ID, err)
	}
	return nil
}

// FindByID returns ErrNotFound for unknown or expired jobs.
func (r *ExportJobRepository) FindByID(ctx context.Context, id string) (*models.ExportJob, error) {
	raw, err := r.client.Get(ctx, exportJobKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get export job %s: %w", id, err)
	}
	var job models.ExportJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("unmarshal export job %s: %w", id, err)
	}
	return &job, nil
}

// MemoryExportJobRepository is the single-instance job registry.
type MemoryExportJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]models.ExportJob
}

// NewMemoryExportJobRepository returns an empty registry.
func NewMemoryExportJobRepository() *MemoryExportJobRepository {
	return &MemoryExportJobRepository{jobs: make(map[string]models.ExportJob)}
}

// Save stores a copy of job.
func (r *MemoryExportJobRepository) Save(_ context.Context, job *models.ExportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

// FindByID returns a copy of the stored job.
func (r *MemoryExportJobRepository) FindByID(_ context.Context, id string) (*models.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &job, nil
}

// IDs lists stored job ids in no particular order.
func (r *MemoryExportJobRepository) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.jobs))
	for id := range r.jobs {
		ids = append(ids, id)
	}
	return ids
}
