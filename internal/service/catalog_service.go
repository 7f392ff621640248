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

// CatalogService covers single-record writes for students, programs and
// batches. Creation stamps createdAt and updatedAt; updates refresh updatedAt.
type CatalogService struct {
	records   recordWriter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(records recordWriter, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CatalogService{records: records, validator: validate, logger: logger, now: time.Now}
}

// AddStudent creates a student. The enrolling employee defaults to actorID.
func (s *CatalogService) AddStudent(ctx context.Context, actorID string, req dto.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := req.Student()
	if student.EmployeeID == "" {
		student.EmployeeID = actorID
	}
	student.CreatedAt, student.UpdatedAt = s.stamps()

	id, err := s.records.Push(ctx, repository.CollectionStudents, student)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	student.ID = id
	return &student, nil
}

// UpdateStudent overwrites the form fields of a student and keeps createdAt.
func (s *CatalogService) UpdateStudent(ctx context.Context, view *models.Snapshot, id string, req dto.StudentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	existing, ok := view.Student(id)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	student := req.Student()
	if student.EmployeeID == "" {
		student.EmployeeID = existing.EmployeeID
	}
	_, student.UpdatedAt = s.stamps()

	if err := s.records.Merge(ctx, repository.CollectionStudents, id, student); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return nil
}

// DeleteStudent removes one student.
func (s *CatalogService) DeleteStudent(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	if err := s.records.Remove(ctx, repository.CollectionStudents, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// AddProgram creates a program.
func (s *CatalogService) AddProgram(ctx context.Context, req dto.ProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}
	program := req.Program()
	program.CreatedAt, program.UpdatedAt = s.stamps()

	id, err := s.records.Push(ctx, repository.CollectionPrograms, program)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create program")
	}
	program.ID = id
	return &program, nil
}

// UpdateProgram overwrites the form fields of a program.
func (s *CatalogService) UpdateProgram(ctx context.Context, view *models.Snapshot, id string, req dto.ProgramRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}
	if _, ok := view.Program(id); !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	program := req.Program()
	_, program.UpdatedAt = s.stamps()

	if err := s.records.Merge(ctx, repository.CollectionPrograms, id, program); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update program")
	}
	return nil
}

// AddBatch creates a batch.
func (s *CatalogService) AddBatch(ctx context.Context, req dto.BatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	batch := req.Batch()
	batch.CreatedAt, batch.UpdatedAt = s.stamps()

	id, err := s.records.Push(ctx, repository.CollectionBatches, batch)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch")
	}
	batch.ID = id
	return &batch, nil
}

// UpdateBatch overwrites the form fields of a batch.
func (s *CatalogService) UpdateBatch(ctx context.Context, view *models.Snapshot, id string, req dto.BatchRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	if _, ok := view.Batch(id); !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "batch not found")
	}
	batch := req.Batch()
	_, batch.UpdatedAt = s.stamps()

	if err := s.records.Merge(ctx, repository.CollectionBatches, id, batch); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update batch")
	}
	return nil
}

// stamps returns createdAt and updatedAt for a write happening now. Both come
// from one clock reading.
func (s *CatalogService) stamps() (string, string) {
	stamp := models.FormatTimestamp(s.now())
	return stamp, stamp
}
