package dto

// SignInRequest carries email/password credentials.
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FederatedSignInRequest carries the ID token returned by the federated
// provider's consent flow. An empty token means the user dismissed the flow.
type FederatedSignInRequest struct {
	IDToken string `json:"idToken"`
}

// SignUpRequest registers a credential for a pre-registered employee.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
