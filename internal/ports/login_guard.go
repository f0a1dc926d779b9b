package ports

import "context"

// LoginGuard limits failed password attempts per user.
type LoginGuard interface {
	// Allowed reports whether the user may try a password now.
	Allowed(ctx context.Context, userID int64) (bool, error)
	// Failed records a rejected password.
	Failed(ctx context.Context, userID int64) error
	// Succeeded clears the user's failures.
	Succeeded(ctx context.Context, userID int64) error
}
