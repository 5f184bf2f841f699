package auth

import (
	"context"
	"errors"
)

// UserContext is the authenticated identity attached to a request.
type UserContext struct {
	UserID string
	Email  string
}

// contextKey for storing user context
type contextKey string

const userContextKey contextKey = "user"

// GetUserFromContext extracts the authenticated user from ctx. Absence of
// identity is a terminal condition for protected operations.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, errors.New("user not found in context")
	}
	return user, nil
}

// SetUserInContext adds the authenticated user to ctx.
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
