package auth

import "context"

// AuthService defines the authentication surface. Identity provisioning is
// an external administrative concern; this service only verifies credentials
// and manages token lifecycles.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	Refresh(ctx context.Context, req RefreshRequest, session SessionTrackingRequest) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
