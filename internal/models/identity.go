package models

import "time"

// Identity providers.
const (
	ProviderPassword  = "password"
	ProviderFederated = "federated"
)

// Identity is an authenticated principal as reported by the identity gateway.
// Email may be empty for principals without a verified address.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Provider    string `json:"provider"`
}

// Account is the credential record kept by the built-in identity provider.
type Account struct {
	UID          string    `db:"uid" json:"uid"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Provider     string    `db:"provider" json:"provider"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Identity projects the account into the gateway's identity shape.
func (a *Account) Identity() *Identity {
	return &Identity{UID: a.UID, Email: a.Email, DisplayName: a.DisplayName, Provider: a.Provider}
}
