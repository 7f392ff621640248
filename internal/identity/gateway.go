// Package identity authenticates principals and reports identity changes.
package identity

import (
	"context"

	"github.com/noah-isme/sci-crm-api/internal/models"
)

// Event reports that the identity bound to UID changed. Identity is nil once
// the principal signs out. The event fired at subscribe time has an empty UID.
type Event struct {
	UID      string
	Identity *models.Identity
}

// Gateway is the contract of an identity provider.
type Gateway interface {
	SignInWithCredential(ctx context.Context, email, password string) (*models.Identity, error)
	SignInWithFederated(ctx context.Context, idToken string) (*models.Identity, error)
	SignUpWithCredential(ctx context.Context, email, password string) (*models.Identity, error)
	SignOut(ctx context.Context, uid string) error
	OnIdentityChange(fn func(Event)) (unsubscribe func())
}
