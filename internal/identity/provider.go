package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
)

const defaultMinPasswordLength = 6

type accountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
}

// ProviderConfig tunes the built-in provider.
type ProviderConfig struct {
	MinPasswordLength int
}

// Provider is the built-in identity provider: bcrypt password accounts plus
// federated sign-in through verified ID tokens.
type Provider struct {
	accounts  accountRepository
	federated *FederatedVerifier
	validator *validator.Validate
	logger    *zap.Logger
	config    ProviderConfig
	now       func() time.Time

	mu        sync.RWMutex
	next      int
	listeners map[int]func(Event)
}

var _ Gateway = (*Provider)(nil)

// NewProvider constructs a Provider.
func NewProvider(accounts accountRepository, federated *FederatedVerifier, validate *validator.Validate, logger *zap.Logger, cfg ProviderConfig) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = defaultMinPasswordLength
	}
	return &Provider{
		accounts:  accounts,
		federated: federated,
		validator: validate,
		logger:    logger,
		config:    cfg,
		now:       time.Now,
		listeners: make(map[int]func(Event)),
	}
}

// SignInWithCredential authenticates an email/password pair.
func (p *Provider) SignInWithCredential(ctx context.Context, email, password string) (*models.Identity, error) {
	account, err := p.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredential
		}
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, appErrors.MsgSignInFailed)
	}
	if account.Provider != models.ProviderPassword {
		return nil, appErrors.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, appErrors.ErrInvalidCredential
	}

	identity := account.Identity()
	p.emit(Event{UID: identity.UID, Identity: identity})
	return identity, nil
}

// SignInWithFederated authenticates with an ID token from the federation
// broker. The first federated sign-in for an email creates its account.
func (p *Provider) SignInWithFederated(ctx context.Context, idToken string) (*models.Identity, error) {
	if idToken == "" {
		return nil, appErrors.ErrPopupClosed
	}
	if p.federated == nil {
		return nil, appErrors.Clone(appErrors.ErrIdentity, appErrors.MsgFederatedFailed)
	}
	claims, err := p.federated.Verify(idToken)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, appErrors.MsgFederatedFailed)
	}

	var identity *models.Identity
	if claims.Email == "" {
		identity = &models.Identity{UID: "federated:" + claims.Subject, DisplayName: claims.Name, Provider: models.ProviderFederated}
	} else {
		identity, err = p.federatedAccount(ctx, claims)
		if err != nil {
			return nil, err
		}
	}

	p.emit(Event{UID: identity.UID, Identity: identity})
	return identity, nil
}

func (p *Provider) federatedAccount(ctx context.Context, claims *FederatedClaims) (*models.Identity, error) {
	account, err := p.accounts.FindByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		if account.Provider != models.ProviderFederated {
			return nil, appErrors.ErrAccountExistsDifferentCredential
		}
		return account.Identity(), nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, appErrors.MsgFederatedFailed)
	}

	account = &models.Account{
		UID:         uuid.NewString(),
		Email:       claims.Email,
		Provider:    models.ProviderFederated,
		DisplayName: claims.Name,
		CreatedAt:   p.now().UTC(),
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, appErrors.MsgFederatedFailed)
	}
	p.logger.Info("federated account created", zap.String("uid", account.UID))
	return account.Identity(), nil
}

// SignUpWithCredential registers a password account and signs it in.
func (p *Provider) SignUpWithCredential(ctx context.Context, email, password string) (*models.Identity, error) {
	if err := p.validator.Var(email, "required,email"); err != nil {
		return nil, appErrors.ErrInvalidEmail
	}
	if len(password) < p.config.MinPasswordLength {
		return nil, appErrors.Clone(appErrors.ErrWeakPassword,
			fmt.Sprintf("Password is too weak. Please use at least %d characters.", p.config.MinPasswordLength))
	}

	if _, err := p.accounts.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.ErrEmailInUse
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, appErrors.MsgSignUpFailed)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, appErrors.MsgSignUpFailed)
	}
	account := &models.Account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     models.ProviderPassword,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return nil, appErrors.ErrEmailInUse
		}
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, appErrors.MsgSignUpFailed)
	}

	identity := account.Identity()
	p.emit(Event{UID: identity.UID, Identity: identity})
	return identity, nil
}

// SignOut ends every session of uid.
func (p *Provider) SignOut(_ context.Context, uid string) error {
	if uid == "" {
		return nil
	}
	p.emit(Event{UID: uid})
	return nil
}

// OnIdentityChange registers fn and invokes it once immediately with an empty
// event.
func (p *Provider) OnIdentityChange(fn func(Event)) func() {
	p.mu.Lock()
	id := p.next
	p.next++
	p.listeners[id] = fn
	p.mu.Unlock()

	fn(Event{})

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

func (p *Provider) emit(evt Event) {
	p.mu.RLock()
	fns := make([]func(Event), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.RUnlock()

	for _, fn := range fns {
		fn(evt)
	}
}
