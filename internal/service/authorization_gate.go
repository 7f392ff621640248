package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
)

type employeeLookup interface {
	FindEmployee(ctx context.Context, id string) (*models.Employee, error)
}

// RejectReason explains why the gate turned an identity away.
type RejectReason string

const (
	RejectNoEmail     RejectReason = "NO_EMAIL"
	RejectNotFound    RejectReason = "NOT_FOUND"
	RejectNotApproved RejectReason = "NOT_APPROVED"
)

// Decision is the gate's verdict on one identity.
type Decision struct {
	Admitted   bool
	Reason     RejectReason
	EmployeeID string
	Employee   *models.Employee
}

// Err converts a rejection into the error shown to the user. Admitted
// decisions return nil.
func (d Decision) Err() error {
	if d.Admitted {
		return nil
	}
	switch d.Reason {
	case RejectNoEmail:
		return appErrors.ErrUnauthorizedNoEmail
	case RejectNotApproved:
		return appErrors.ErrEmployeeNotApproved
	default:
		return appErrors.ErrEmployeeNotFound
	}
}

// AuthorizationGate admits authenticated identities listed and approved in
// the employees collection.
type AuthorizationGate struct {
	employees employeeLookup
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewAuthorizationGate constructs the gate.
func NewAuthorizationGate(employees employeeLookup, metrics *MetricsService, logger *zap.Logger) *AuthorizationGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthorizationGate{employees: employees, metrics: metrics, logger: logger}
}

// DeriveEmployeeID maps an email to its employees key. Applying it to its own
// output is a no-op.
func DeriveEmployeeID(email string) string {
	return repository.EmployeeKey(email)
}

// Authorize decides whether identity may use the platform. A non-nil error
// means the allow-list could not be read; no decision was made.
func (g *AuthorizationGate) Authorize(ctx context.Context, identity *models.Identity) (Decision, error) {
	if identity == nil || identity.Email == "" {
		g.metrics.RecordAuthorization(OutcomeRejected)
		return Decision{Reason: RejectNoEmail}, nil
	}

	employeeID := DeriveEmployeeID(identity.Email)
	decision := Decision{EmployeeID: employeeID}

	employee, err := g.employees.FindEmployee(ctx, employeeID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		decision.Reason = RejectNotFound
	case err != nil:
		g.metrics.RecordAuthorization(OutcomeError)
		return Decision{}, err
	case !employee.Approved():
		decision.Reason = RejectNotApproved
		decision.Employee = employee
	default:
		decision.Admitted = true
		decision.Employee = employee
	}

	if decision.Admitted {
		g.metrics.RecordAuthorization(OutcomeAdmitted)
	} else {
		g.metrics.RecordAuthorization(OutcomeRejected)
		g.logger.Info("identity rejected",
			zap.String("uid", identity.UID),
			zap.String("employee_id", employeeID),
			zap.String("reason", string(decision.Reason)),
		)
	}
	return decision, nil
}

// PreCheckSignIn requires an approved employee row before credentials are
// sent to the identity provider.
func (g *AuthorizationGate) PreCheckSignIn(ctx context.Context, email string) error {
	employee, err := g.lookup(ctx, email)
	if err != nil {
		return err
	}
	if employee == nil {
		return appErrors.ErrEmployeeNotFound
	}
	if !employee.Approved() {
		return appErrors.ErrEmployeeNotApproved
	}
	return nil
}

// PreCheckSignUp requires only that the employee was pre-registered.
func (g *AuthorizationGate) PreCheckSignUp(ctx context.Context, email string) error {
	employee, err := g.lookup(ctx, email)
	if err != nil {
		return err
	}
	if employee == nil {
		return appErrors.ErrEmployeeNotRegistered
	}
	return nil
}

func (g *AuthorizationGate) lookup(ctx context.Context, email string) (*models.Employee, error) {
	employee, err := g.employees.FindEmployee(ctx, DeriveEmployeeID(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify employee")
	}
	return employee, nil
}
