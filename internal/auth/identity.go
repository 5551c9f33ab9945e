package auth

import (
	"context"

	apperr "squadup/backend/pkg/errors"

	"github.com/google/uuid"
)

type userKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user id.
func WithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFrom returns the user id stored by WithUser.
func UserFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// ContextIdentity resolves the caller from the request context populated by the middleware.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUser(ctx context.Context) (uuid.UUID, error) {
	id, ok := UserFrom(ctx)
	if !ok {
		return uuid.Nil, apperr.ErrUnauthenticated
	}
	return id, nil
}
