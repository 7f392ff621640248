package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
)

// BulkService applies one mutation to many records in a single atomic write.
type BulkService struct {
	records   recordWriter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewBulkService constructs a BulkService.
func NewBulkService(records recordWriter, validate *validator.Validate, logger *zap.Logger) *BulkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BulkService{records: records, validator: validate, logger: logger, now: time.Now}
}

// BulkDelete removes every listed record of students or inquiries.
func (s *BulkService) BulkDelete(ctx context.Context, collection repository.Collection, req dto.BulkDeleteRequest) (*dto.BulkResult, error) {
	if collection != repository.CollectionStudents && collection != repository.CollectionInquiries {
		return nil, appErrors.Clone(appErrors.ErrValidation, "bulk delete is limited to students and inquiries")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk delete payload")
	}

	ids := uniqueIDs(req.IDs)
	batch := repository.NewWriteBatch()
	for _, id := range ids {
		batch.Delete(collection, id)
	}
	if err := s.records.Apply(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete records")
	}

	s.logger.Info("bulk delete applied", zap.String("collection", string(collection)), zap.Int("count", len(ids)))
	return &dto.BulkResult{Affected: ids}, nil
}

// BulkReassignBatch moves students into one batch. Every record gets the same
// updatedAt value. Students missing from the snapshot are skipped so no
// partial record is created for them.
func (s *BulkService) BulkReassignBatch(ctx context.Context, view *models.Snapshot, req dto.ReassignBatchRequest) (*dto.BulkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch transfer payload")
	}

	updatedAt := models.FormatTimestamp(s.now())
	result := &dto.BulkResult{Affected: []string{}, UpdatedAt: updatedAt}
	batch := repository.NewWriteBatch()
	for _, id := range uniqueIDs(req.IDs) {
		if _, ok := view.Student(id); !ok {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		batch.SetField(repository.CollectionStudents, id, "batchId", req.BatchID)
		batch.SetField(repository.CollectionStudents, id, "updatedAt", updatedAt)
		result.Affected = append(result.Affected, id)
	}

	if len(result.Skipped) > 0 {
		s.logger.Warn("batch transfer skipped students not in snapshot", zap.Strings("student_ids", result.Skipped))
	}
	if batch.Len() == 0 {
		return result, nil
	}
	if err := s.records.Apply(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to transfer students")
	}
	return result, nil
}
