package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
)

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(evt Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
}

type failingAccounts struct{}

func (failingAccounts) FindByEmail(context.Context, string) (*models.Account, error) {
	return nil, errors.New("db down")
}

func (failingAccounts) Create(context.Context, *models.Account) error { return errors.New("db down") }

func newTestProvider() (*Provider, *FederatedVerifier) {
	verifier := NewFederatedVerifier("test-secret", "broker", "sci-crm")
	provider := NewProvider(repository.NewMemoryAccountRepository(), verifier, nil, zap.NewNop(), ProviderConfig{MinPasswordLength: 6})
	return provider, verifier
}

func TestSignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	provider, _ := newTestProvider()
	log := &eventLog{}
	provider.OnIdentityChange(log.record)

	created, err := provider.SignUpWithCredential(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", created.Email)
	assert.Equal(t, models.ProviderPassword, created.Provider)

	signedIn, err := provider.SignInWithCredential(ctx, "Asha@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.UID, signedIn.UID)

	require.Len(t, log.events, 3)
	assert.Equal(t, Event{}, log.events[0], "fires once at subscribe time")
	assert.Equal(t, created.UID, log.events[1].UID)
	assert.NotNil(t, log.events[2].Identity)
}

func TestSignUpFailures(t *testing.T) {
	ctx := context.Background()
	provider, _ := newTestProvider()
	_, err := provider.SignUpWithCredential(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)

	_, err = provider.SignUpWithCredential(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, appErrors.ErrInvalidEmail)

	_, err = provider.SignUpWithCredential(ctx, "ravi@example.com", "12345")
	assert.ErrorIs(t, err, appErrors.ErrWeakPassword)

	_, err = provider.SignUpWithCredential(ctx, "ASHA@example.com", "another1")
	assert.ErrorIs(t, err, appErrors.ErrEmailInUse)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	provider, _ := newTestProvider()
	_, err := provider.SignUpWithCredential(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)

	_, err = provider.SignInWithCredential(ctx, "asha@example.com", "wrong")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredential)

	_, err = provider.SignInWithCredential(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredential)
}

func TestStoreFailuresCollapseToGenericError(t *testing.T) {
	provider := NewProvider(failingAccounts{}, nil, nil, zap.NewNop(), ProviderConfig{})

	_, err := provider.SignInWithCredential(context.Background(), "asha@example.com", "secret1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrIdentity.Code, appErr.Code)
	assert.Equal(t, appErrors.MsgSignInFailed, appErr.Message)

	_, err = provider.SignUpWithCredential(context.Background(), "asha@example.com", "secret1")
	assert.Equal(t, appErrors.MsgSignUpFailed, appErrors.FromError(err).Message)
}

func TestFederatedSignIn(t *testing.T) {
	ctx := context.Background()
	provider, verifier := newTestProvider()

	_, err := provider.SignInWithFederated(ctx, "")
	assert.ErrorIs(t, err, appErrors.ErrPopupClosed)

	token, err := verifier.Issue(FederatedClaims{
		Email: "meera@example.com", Name: "Meera",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "g-123"},
	}, time.Minute)
	require.NoError(t, err)

	first, err := provider.SignInWithFederated(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "meera@example.com", first.Email)
	assert.Equal(t, models.ProviderFederated, first.Provider)

	second, err := provider.SignInWithFederated(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, first.UID, second.UID, "account is reused")
}

func TestFederatedSignInConflictsWithPasswordAccount(t *testing.T) {
	ctx := context.Background()
	provider, verifier := newTestProvider()
	_, err := provider.SignUpWithCredential(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)

	token, err := verifier.Issue(FederatedClaims{
		Email:            "asha@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "g-1"},
	}, time.Minute)
	require.NoError(t, err)

	_, err = provider.SignInWithFederated(ctx, token)
	assert.ErrorIs(t, err, appErrors.ErrAccountExistsDifferentCredential)
}

func TestFederatedSignInWithoutEmail(t *testing.T) {
	provider, verifier := newTestProvider()
	token, err := verifier.Issue(FederatedClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "anon"}}, time.Minute)
	require.NoError(t, err)

	identity, err := provider.SignInWithFederated(context.Background(), token)
	require.NoError(t, err)
	assert.Empty(t, identity.Email)
	assert.Equal(t, "federated:anon", identity.UID)
}

func TestFederatedSignInRejectsForeignToken(t *testing.T) {
	provider, _ := newTestProvider()
	foreign := NewFederatedVerifier("other-secret", "broker", "sci-crm")
	token, err := foreign.Issue(FederatedClaims{
		Email: "x@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: "x"},
	}, time.Minute)
	require.NoError(t, err)

	_, err = provider.SignInWithFederated(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, appErrors.MsgFederatedFailed, appErrors.FromError(err).Message)
}

func TestSignOutEmitsNilIdentity(t *testing.T) {
	provider, _ := newTestProvider()
	log := &eventLog{}
	unsubscribe := provider.OnIdentityChange(log.record)

	require.NoError(t, provider.SignOut(context.Background(), "uid-1"))
	unsubscribe()
	require.NoError(t, provider.SignOut(context.Background(), "uid-2"))

	require.Len(t, log.events, 2)
	assert.Equal(t, Event{UID: "uid-1"}, log.events[1])
}
