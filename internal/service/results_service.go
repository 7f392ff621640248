package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/models"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
)

type examWriter interface {
	ReplaceExams(ctx context.Context, results models.ExamResults) error
}

// ResultsService maintains the exam results showcase. Each change rewrites
// the whole exams tree computed from the session snapshot.
type ResultsService struct {
	records   examWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultsService constructs a ResultsService.
func NewResultsService(records examWriter, validate *validator.Validate, logger *zap.Logger) *ResultsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ResultsService{records: records, validator: validate, logger: logger}
}

// List groups results by exam, years newest first.
func (s *ResultsService) List(view *models.Snapshot) []dto.ExamGroup {
	groups := make([]dto.ExamGroup, 0, len(view.Exams))
	for _, exam := range view.Exams.Exams() {
		group := dto.ExamGroup{Exam: exam, Years: []dto.ExamYear{}}
		for _, year := range view.Exams.Years(exam) {
			group.Years = append(group.Years, dto.ExamYear{Year: year, Records: view.Exams[exam][year]})
		}
		groups = append(groups, group)
	}
	return groups
}

// Add appends a record to exam/year.
func (s *ResultsService) Add(ctx context.Context, view *models.Snapshot, exam, year string, req dto.ExamRecordRequest) error {
	if err := s.validate(exam, year, req); err != nil {
		return err
	}
	if err := s.readable(view); err != nil {
		return err
	}
	return s.write(ctx, view.Exams.Add(exam, year, req.Record()))
}

// Replace swaps the record at index.
func (s *ResultsService) Replace(ctx context.Context, view *models.Snapshot, exam, year string, index int, req dto.ExamRecordRequest) error {
	if err := s.validate(exam, year, req); err != nil {
		return err
	}
	if err := s.readable(view); err != nil {
		return err
	}
	next, err := view.Exams.Replace(exam, year, index, req.Record())
	if err != nil {
		return s.indexError(err)
	}
	return s.write(ctx, next)
}

// Remove deletes the record at index, pruning emptied years and exams.
func (s *ResultsService) Remove(ctx context.Context, view *models.Snapshot, exam, year string, index int) error {
	if err := s.readable(view); err != nil {
		return err
	}
	next, err := view.Exams.Remove(exam, year, index)
	if err != nil {
		return s.indexError(err)
	}
	return s.write(ctx, next)
}

func (s *ResultsService) validate(exam, year string, req dto.ExamRecordRequest) error {
	if strings.TrimSpace(exam) == "" || strings.TrimSpace(year) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "exam and year are required")
	}
	if strings.ContainsAny(exam+year, "/.#$[]") {
		return appErrors.Clone(appErrors.ErrValidation, "exam and year cannot contain / . # $ [ ]")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam result payload")
	}
	return nil
}

// readable refuses writes while the stored tree fails to decode. Every write
// replaces the whole tree.
func (s *ResultsService) readable(view *models.Snapshot) error {
	if view.ExamsErr == nil {
		return nil
	}
	s.logger.Warn("exam write refused", zap.Error(view.ExamsErr))
	return appErrors.Clone(appErrors.ErrInternal, "exam results could not be read")
}

func (s *ResultsService) indexError(err error) error {
	if errors.Is(err, models.ErrRecordIndex) {
		return appErrors.Clone(appErrors.ErrNotFound, "exam result not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam results")
}

func (s *ResultsService) write(ctx context.Context, results models.ExamResults) error {
	if err := s.records.ReplaceExams(ctx, results); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save exam results")
	}
	return nil
}
