package user

import "context"

// UserRepository defines data access for API users.
type UserRepository interface {
	// GetByEmail retrieves a user for login. Returns ErrUserNotFound when
	// the email is unknown.
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByID retrieves a user for token refresh.
	GetByID(ctx context.Context, id string) (User, error)
}
