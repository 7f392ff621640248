package service

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
)

// Transition labels.
const (
	TransitionMoveToPotential      = "move_to_potential"
	TransitionMoveManyToPotentials = "move_many_to_potentials"
	TransitionEnrollPotential      = "enroll_potential"
)

type recordWriter interface {
	Push(ctx context.Context, collection repository.Collection, record interface{}) (string, error)
	Replace(ctx context.Context, collection repository.Collection, id string, record interface{}) error
	Merge(ctx context.Context, collection repository.Collection, id string, record interface{}) error
	Remove(ctx context.Context, collection repository.Collection, id string) error
	NewKey() string
	Apply(ctx context.Context, batch *repository.WriteBatch) error
}

// LifecycleConfig holds the defaults applied while moving leads between stages.
type LifecycleConfig struct {
	EnrollmentPrefix string
	DefaultMedium    string
	DefaultBoard     string
	StampInquiries   bool
}

// LifecycleService moves contacts from inquiry to potential to student. Every
// transition is one atomic multi-path write that creates the successor and
// deletes the predecessor. Reads come from the caller's session snapshot;
// results show up there once the store echoes the write.
type LifecycleService struct {
	records   recordWriter
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	config    LifecycleConfig
	now       func() time.Time
}

// NewLifecycleService constructs a LifecycleService.
func NewLifecycleService(records recordWriter, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg LifecycleConfig) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.EnrollmentPrefix == "" {
		cfg.EnrollmentPrefix = "ENR"
	}
	if cfg.DefaultMedium == "" {
		cfg.DefaultMedium = "English"
	}
	if cfg.DefaultBoard == "" {
		cfg.DefaultBoard = "CBSE"
	}
	return &LifecycleService{
		records:   records,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		config:    cfg,
		now:       time.Now,
	}
}

// CreateInquiry stores a new lead. The handling employee defaults to actorID.
// Timestamps are only stamped when StampInquiries is enabled.
func (s *LifecycleService) CreateInquiry(ctx context.Context, actorID string, req dto.CreateInquiryRequest) (*models.Inquiry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inquiry payload")
	}

	inquiry := models.Inquiry{
		Name:                req.Name,
		Phone:               req.Phone,
		Email:               req.Email,
		Address:             req.Address,
		ProgramOfInterestID: req.ProgramOfInterestID,
		EmployeeID:          req.EmployeeID,
		Status:              req.Status,
		Source:              req.Source,
		Notes:               req.Notes,
		InquiryDate:         req.InquiryDate,
		FollowUpDate:        req.FollowUpDate,
	}
	if inquiry.EmployeeID == "" {
		inquiry.EmployeeID = actorID
	}
	if inquiry.Status == "" {
		inquiry.Status = models.InquiryStatusNew
	}
	if inquiry.Source == "" {
		inquiry.Source = models.InquirySourceOther
	}
	if s.config.StampInquiries {
		stamp := models.FormatTimestamp(s.now())
		inquiry.CreatedAt = stamp
		inquiry.UpdatedAt = stamp
	}

	id, err := s.records.Push(ctx, repository.CollectionInquiries, inquiry)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create inquiry")
	}
	inquiry.ID = id
	return &inquiry, nil
}

// EditInquiry merges the supplied fields into an inquiry. Status is free
// text here and never moves the record between collections.
func (s *LifecycleService) EditInquiry(ctx context.Context, view *models.Snapshot, id string, req dto.UpdateInquiryRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inquiry payload")
	}
	if _, ok := view.Inquiry(id); !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
	}

	fields := req.Fields()
	if len(fields) == 0 {
		return nil
	}
	if s.config.StampInquiries {
		fields["updatedAt"] = models.FormatTimestamp(s.now())
	}
	if err := s.records.Merge(ctx, repository.CollectionInquiries, id, fields); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update inquiry")
	}
	return nil
}

// MoveToPotential promotes one inquiry and returns the new potential id.
func (s *LifecycleService) MoveToPotential(ctx context.Context, view *models.Snapshot, inquiryID string, req dto.MoveToPotentialRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}

	inquiry, ok := view.Inquiry(inquiryID)
	if !ok {
		s.logger.Warn("move to potential skipped: inquiry not in snapshot", zap.String("inquiry_id", inquiryID))
		s.metrics.RecordTransition(TransitionMoveToPotential, OutcomeMissing)
		return "", appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
	}

	potentialID := s.records.NewKey()
	batch := repository.NewWriteBatch()
	batch.Put(repository.CollectionPotentials, potentialID, models.NewPotential(inquiry, req.Remark))
	batch.Delete(repository.CollectionInquiries, inquiryID)

	if err := s.records.Apply(ctx, batch); err != nil {
		s.metrics.RecordTransition(TransitionMoveToPotential, OutcomeError)
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to move inquiry")
	}
	s.metrics.RecordTransition(TransitionMoveToPotential, OutcomeApplied)
	return potentialID, nil
}

// MoveManyToPotentials promotes every listed inquiry found in the snapshot in
// one atomic write. Missing or repeated ids are skipped.
func (s *LifecycleService) MoveManyToPotentials(ctx context.Context, view *models.Snapshot, req dto.MoveManyToPotentialsRequest) (*dto.MoveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}

	result := &dto.MoveResult{Potentials: make(map[string]string), Skipped: []string{}}
	batch := repository.NewWriteBatch()
	for _, inquiryID := range uniqueIDs(req.IDs) {
		inquiry, ok := view.Inquiry(inquiryID)
		if !ok {
			result.Skipped = append(result.Skipped, inquiryID)
			continue
		}
		potentialID := s.records.NewKey()
		batch.Put(repository.CollectionPotentials, potentialID, models.NewPotential(inquiry, req.Remark))
		batch.Delete(repository.CollectionInquiries, inquiryID)
		result.Potentials[inquiryID] = potentialID
	}

	if len(result.Skipped) > 0 {
		s.logger.Warn("bulk move skipped inquiries not in snapshot", zap.Strings("inquiry_ids", result.Skipped))
		s.metrics.RecordTransition(TransitionMoveManyToPotentials, OutcomeMissing)
	}
	if batch.Len() == 0 {
		return result, nil
	}

	if err := s.records.Apply(ctx, batch); err != nil {
		s.metrics.RecordTransition(TransitionMoveManyToPotentials, OutcomeError)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to move inquiries")
	}
	s.metrics.RecordTransition(TransitionMoveManyToPotentials, OutcomeApplied)
	return result, nil
}

// EditPotential replaces a potential with the supplied record. Fields left
// out of the request are cleared.
func (s *LifecycleService) EditPotential(ctx context.Context, view *models.Snapshot, id string, req dto.PotentialRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid potential payload")
	}
	if _, ok := view.Potential(id); !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "potential not found")
	}
	if err := s.records.Replace(ctx, repository.CollectionPotentials, id, req.Potential()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update potential")
	}
	return nil
}

// EnrollPotential converts a potential into a student. Fields missing from
// req are derived from the potential or from the configured defaults.
func (s *LifecycleService) EnrollPotential(ctx context.Context, view *models.Snapshot, potentialID string, req dto.EnrollPotentialRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	potential, ok := view.Potential(potentialID)
	if !ok {
		s.logger.Warn("enrollment skipped: potential not in snapshot", zap.String("potential_id", potentialID))
		s.metrics.RecordTransition(TransitionEnrollPotential, OutcomeMissing)
		return nil, appErrors.Clone(appErrors.ErrNotFound, "potential not found")
	}

	now := s.now()
	student := s.studentFromPotential(view, potential, req, now)
	student.ID = s.records.NewKey()

	batch := repository.NewWriteBatch()
	batch.Put(repository.CollectionStudents, student.ID, student)
	batch.Delete(repository.CollectionPotentials, potentialID)

	if err := s.records.Apply(ctx, batch); err != nil {
		s.metrics.RecordTransition(TransitionEnrollPotential, OutcomeError)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll potential")
	}
	s.metrics.RecordTransition(TransitionEnrollPotential, OutcomeApplied)
	return &student, nil
}

func (s *LifecycleService) studentFromPotential(view *models.Snapshot, potential models.Potential, req dto.EnrollPotentialRequest, now time.Time) models.Student {
	stamp := models.FormatTimestamp(now)
	student := models.Student{
		FullName:     firstNonEmpty(req.FullName, potential.Name),
		EnrollmentID: firstNonEmpty(req.EnrollmentID, s.config.EnrollmentPrefix+strconv.FormatInt(now.UnixMilli(), 10)),
		DOB:          req.DOB,
		ClassName:    req.ClassName,
		School:       req.School,
		ProgramID:    firstNonEmpty(req.ProgramID, potential.ProgramOfInterestID),
		BatchID:      req.BatchID,
		Medium:       firstNonEmpty(req.Medium, s.config.DefaultMedium),
		Board:        firstNonEmpty(req.Board, s.config.DefaultBoard),
		Phone:        firstNonEmpty(req.Phone, potential.Phone),
		Email:        firstNonEmpty(req.Email, potential.Email),
		Address:      firstNonEmpty(req.Address, potential.Address),
		Status:       models.StudentStatus(firstNonEmpty(string(req.Status), string(models.StudentStatusActive))),
		EmployeeID:   potential.EmployeeID,
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
	}
	if student.ProgramID == "" && len(view.Programs) > 0 {
		student.ProgramID = view.Programs[0].ID
	}
	return student
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// uniqueIDs drops repeats and blanks while keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
