package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/identity"
	"github.com/noah-isme/sci-crm-api/internal/models"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
)

// AuthConfig defines the session token settings.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
}

// AuthService signs employees in through the identity gateway and admits
// them through the authorization gate.
type AuthService struct {
	gate      *AuthorizationGate
	identity  identity.Gateway
	sessions  *SessionManager
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(gate *AuthorizationGate, gateway identity.Gateway, sessions *SessionManager, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 12 * time.Hour
	}
	return &AuthService{
		gate:      gate,
		identity:  gateway,
		sessions:  sessions,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// SignIn authenticates an email/password pair for an approved employee.
func (s *AuthService) SignIn(ctx context.Context, req dto.SignInRequest) (*models.SessionInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sign-in payload")
	}
	if err := s.gate.PreCheckSignIn(ctx, req.Email); err != nil {
		return nil, err
	}

	ident, err := s.identity.SignInWithCredential(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.identityError(err, appErrors.MsgSignInFailed)
	}
	return s.establish(ctx, ident)
}

// SignInFederated authenticates with a federated ID token. No pre-check is
// possible because the email is only known after the provider answers.
func (s *AuthService) SignInFederated(ctx context.Context, req dto.FederatedSignInRequest) (*models.SessionInfo, error) {
	ident, err := s.identity.SignInWithFederated(ctx, req.IDToken)
	if err != nil {
		return nil, s.identityError(err, appErrors.MsgFederatedFailed)
	}
	return s.establish(ctx, ident)
}

// SignUp registers a credential for a pre-registered employee. The new
// identity still has to pass the gate, so an unapproved employee is signed
// out straight away.
func (s *AuthService) SignUp(ctx context.Context, req dto.SignUpRequest) (*models.SessionInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sign-up payload")
	}
	if err := s.gate.PreCheckSignUp(ctx, req.Email); err != nil {
		return nil, err
	}

	ident, err := s.identity.SignUpWithCredential(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.identityError(err, appErrors.MsgSignUpFailed)
	}
	return s.establish(ctx, ident)
}

// SignOut ends the session and signs the principal out of the identity
// gateway. Failures are logged only.
func (s *AuthService) SignOut(ctx context.Context, session *Session) {
	if session == nil {
		return
	}
	s.sessions.Close(session.ID)
	if err := s.identity.SignOut(ctx, session.Identity.UID); err != nil {
		s.logger.Warn("identity sign-out failed", zap.String("uid", session.Identity.UID), zap.Error(err))
	}
}

// ResolveSession validates a bearer token and returns the live session it
// names.
func (s *AuthService) ResolveSession(tokenString string) (*Session, *models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil, appErrors.ErrSessionExpired
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	session, ok := s.sessions.Get(claims.ID)
	if !ok || session.Closed() {
		return nil, nil, appErrors.ErrSessionExpired
	}
	return session, claims, nil
}

// Describe renders a session for the client.
func (s *AuthService) Describe(session *Session, token string) *models.SessionInfo {
	return &models.SessionInfo{
		Token:      token,
		ExpiresAt:  session.ExpiresAt,
		Identity:   session.Identity,
		EmployeeID: session.EmployeeID,
		Employee:   session.Employee,
	}
}

// establish runs the gate on a freshly authenticated identity. A rejected
// identity is signed back out. Failures after admission only discard the
// session being built, so other sessions of the principal stay open.
func (s *AuthService) establish(ctx context.Context, ident *models.Identity) (*models.SessionInfo, error) {
	decision, err := s.gate.Authorize(ctx, ident)
	if err != nil {
		s.logger.Error("authorization lookup failed", zap.String("uid", ident.UID), zap.Error(err))
		s.forceSignOut(ctx, ident)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify employee")
	}
	if !decision.Admitted {
		s.forceSignOut(ctx, ident)
		return nil, decision.Err()
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)

	session, err := s.sessions.Open(ctx, *ident, decision, expiresAt)
	if err != nil {
		s.logger.Error("failed to open session", zap.String("uid", ident.UID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load records")
	}

	token, err := s.generateToken(session, issuedAt, expiresAt)
	if err != nil {
		s.sessions.Close(session.ID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}
	return s.Describe(session, token), nil
}

func (s *AuthService) forceSignOut(ctx context.Context, ident *models.Identity) {
	if err := s.identity.SignOut(ctx, ident.UID); err != nil {
		s.logger.Warn("forced sign-out failed", zap.String("uid", ident.UID), zap.Error(err))
	}
}

// identityError keeps known provider codes and collapses anything else into
// the entry point's generic copy.
func (s *AuthService) identityError(err error, generic string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) && appErr.Code != appErrors.ErrIdentity.Code && appErr.Code != appErrors.ErrInternal.Code {
		return appErr
	}
	s.logger.Error("identity provider failure", zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, generic)
}

func (s *AuthService) generateToken(session *Session, issuedAt, expiresAt time.Time) (string, error) {
	claims := &models.SessionClaims{
		UID:        session.Identity.UID,
		Email:      session.Identity.Email,
		EmployeeID: session.EmployeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Issuer:    s.config.Issuer,
			Subject:   session.Identity.UID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}
