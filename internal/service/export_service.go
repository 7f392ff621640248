package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/export"
	"github.com/noah-isme/sci-crm-api/pkg/jobs"
	"github.com/noah-isme/sci-crm-api/pkg/storage"
)

// JobKindExport tags export work on the job queue.
const JobKindExport = "export"

type exportJobStore interface {
	Save(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
}

type exportQueue interface {
	Enqueue(job jobs.Job) error
}

type expiringStorage interface {
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportDownload is an opened export file. Callers close Body.
type ExportDownload struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
}

// exportPayload travels on the queue. The table is captured from the
// requesting session's snapshot so workers never read the store.
type exportPayload struct {
	JobID string
	Table export.Table
}

// ExportService renders collection exports in the background and hands out
// signed download links.
type ExportService struct {
	jobs      exportJobStore
	storage   storage.Storage
	signer    *storage.SignedURLSigner
	queue     exportQueue
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService. AttachQueue must be called
// before Request.
func NewExportService(jobStore exportJobStore, store storage.Storage, signer *storage.SignedURLSigner, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		jobs:      jobStore,
		storage:   store,
		signer:    signer,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// AttachQueue wires the queue whose workers call Process.
func (s *ExportService) AttachQueue(queue exportQueue) {
	s.queue = queue
}

// Request records a QUEUED job and schedules it.
func (s *ExportService) Request(ctx context.Context, actorID string, view *models.Snapshot, req dto.ExportRequest) (*models.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrFeatureOff, "exports are disabled")
	}
	table, err := BuildExportTable(view, req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported export")
	}

	job := &models.ExportJob{
		ID:          uuid.NewString(),
		Dataset:     req.Dataset,
		Format:      req.Format,
		Query:       req.Query,
		BatchID:     req.BatchID,
		Status:      models.ExportStatusQueued,
		RequestedBy: actorID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Kind: JobKindExport, Payload: exportPayload{JobID: job.ID, Table: table}}); err != nil {
		s.markFailed(ctx, job, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to schedule export")
	}
	s.metrics.RecordExportJob(string(models.ExportStatusQueued))
	s.logger.Info("export queued",
		zap.String("job_id", job.ID),
		zap.String("dataset", string(job.Dataset)),
		zap.String("format", string(job.Format)),
		zap.Int("rows", len(table.Rows)),
	)
	return job, nil
}

// Process is the queue handler: it renders, stores and signs one export.
func (s *ExportService) Process(ctx context.Context, queued jobs.Job) error {
	payload, ok := queued.Payload.(exportPayload)
	if !ok {
		return fmt.Errorf("unexpected export payload %T", queued.Payload)
	}
	job, err := s.jobs.FindByID(ctx, payload.JobID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", payload.JobID, err)
	}
	job.Status = models.ExportStatusProcessing
	if err := s.jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("mark export job %s processing: %w", job.ID, err)
	}

	renderer, err := export.RendererFor(string(job.Format))
	if err != nil {
		return err
	}
	data, err := renderer.Render(payload.Table)
	if err != nil {
		return fmt.Errorf("render export %s: %w", job.ID, err)
	}
	key := path.Join(string(job.Dataset), job.ID+"."+renderer.Extension())
	if err := s.storage.Save(ctx, key, data, renderer.ContentType()); err != nil {
		return fmt.Errorf("store export %s: %w", job.ID, err)
	}
	token, _, err := s.signer.Generate(job.ID, key)
	if err != nil {
		return fmt.Errorf("sign export %s: %w", job.ID, err)
	}

	finished := s.now().UTC()
	job.Status = models.ExportStatusFinished
	job.ObjectKey = key
	job.ResultURL = s.downloadURL(token)
	job.FinishedAt = &finished
	job.ErrorMessage = ""
	if err := s.jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("mark export job %s finished: %w", job.ID, err)
	}
	s.metrics.RecordExportJob(string(models.ExportStatusFinished))
	s.logger.Info("export finished", zap.String("job_id", job.ID), zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Fail is the queue failure hook for exports that used up their retries.
func (s *ExportService) Fail(queued jobs.Job, cause error) {
	payload, ok := queued.Payload.(exportPayload)
	if !ok {
		return
	}
	ctx := context.Background()
	job, err := s.jobs.FindByID(ctx, payload.JobID)
	if err != nil {
		s.logger.Error("failed to load export job", zap.String("job_id", payload.JobID), zap.Error(err))
		return
	}
	s.markFailed(ctx, job, cause)
}

// Get returns a job's current state.
func (s *ExportService) Get(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return job, nil
}

// Open resolves a signed download token to the stored file.
func (s *ExportService) Open(ctx context.Context, token string) (*ExportDownload, error) {
	signed, err := s.signer.Parse(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "download link has expired")
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	ext := strings.TrimPrefix(path.Ext(signed.Key), ".")
	renderer, err := export.RendererFor(ext)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	body, err := s.storage.Open(ctx, signed.Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}
	dataset := path.Dir(signed.Key)
	return &ExportDownload{
		Body:        body,
		Filename:    fmt.Sprintf("%s-%s.%s", dataset, signed.JobID[:min(8, len(signed.JobID))], ext),
		ContentType: renderer.ContentType(),
	}, nil
}

// Cleanup deletes stored exports older than ttl, or ResultTTL when ttl is
// not positive. Backends that expire objects themselves are skipped.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	expiring, ok := s.storage.(expiringStorage)
	if !ok {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return expiring.CleanupOlderThan(ttl)
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (s *ExportService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.Cleanup(0)
				if err != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(removed) > 0 {
					s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
				}
			}
		}
	}()
}

func (s *ExportService) markFailed(ctx context.Context, job *models.ExportJob, cause error) {
	finished := s.now().UTC()
	job.Status = models.ExportStatusFailed
	job.FinishedAt = &finished
	job.ErrorMessage = cause.Error()
	if err := s.jobs.Save(ctx, job); err != nil {
		s.logger.Error("failed to mark export job failed", zap.String("job_id", job.ID), zap.Error(err))
	}
	s.metrics.RecordExportJob(string(models.ExportStatusFailed))
	s.logger.Error("export failed", zap.String("job_id", job.ID), zap.Error(cause))
}

func (s *ExportService) downloadURL(token string) string {
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return prefix + "/exports/download/" + token
}

// BuildExportTable flattens the requested collection of view into rows,
// resolving references to display names.
func BuildExportTable(view *models.Snapshot, req dto.ExportRequest) (export.Table, error) {
	switch req.Dataset {
	case models.ExportDatasetStudents:
		students := FilterStudents(view.Students, dto.StudentFilter{BatchID: req.BatchID, Query: req.Query})
		table := export.Table{
			Title:   "Students",
			Columns: []string{"Full Name", "Enrollment ID", "Program", "Batch", "Phone", "Email", "Status", "Enrolled By"},
			Rows:    make([][]string, 0, len(students)),
		}
		for _, student := range StudentViews(view, students) {
			table.Rows = append(table.Rows, []string{
				student.FullName, student.EnrollmentID, student.ProgramName, student.BatchName,
				student.Phone, student.Email, string(student.Status), student.EmployeeName,
			})
		}
		return table, nil
	case models.ExportDatasetInquiries:
		inquiries := FilterInquiries(view.Inquiries, dto.InquiryFilter{Query: req.Query})
		table := export.Table{
			Title:   "Inquiries",
			Columns: []string{"Name", "Phone", "Program of Interest", "Status", "Source", "Inquiry Date", "Follow-up Date", "Employee"},
			Rows:    make([][]string, 0, len(inquiries)),
		}
		for _, inquiry := range InquiryViews(view, inquiries) {
			table.Rows = append(table.Rows, []string{
				inquiry.Name, inquiry.Phone, inquiry.ProgramName, string(inquiry.Status), string(inquiry.Source),
				inquiry.InquiryDate, inquiry.FollowUpDate, inquiry.EmployeeName,
			})
		}
		return table, nil
	case models.ExportDatasetPotentials:
		potentials := FilterPotentials(view.Potentials, dto.InquiryFilter{Query: req.Query})
		table := export.Table{
			Title:   "Potentials",
			Columns: []string{"Name", "Phone", "Program of Interest", "Status", "Remark", "Follow-up Date", "Employee"},
			Rows:    make([][]string, 0, len(potentials)),
		}
		for _, potential := range PotentialViews(view, potentials) {
			table.Rows = append(table.Rows, []string{
				potential.Name, potential.Phone, potential.ProgramName, string(potential.Status),
				potential.Remark, potential.FollowUpDate, potential.EmployeeName,
			})
		}
		return table, nil
	default:
		return export.Table{}, fmt.Errorf("unknown dataset %q", req.Dataset)
	}
}
