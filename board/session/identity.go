package session

import (
	"context"

	"github.com/andrebq/msgboard/board"
)

type (
	identityKey byte
)

var (
	userKey = identityKey(1)
)

// WithIdentity returns a copy of ctx carrying the authenticated user
func WithIdentity(ctx context.Context, u *board.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// IdentityFrom returns the user attached to ctx, if any.
func IdentityFrom(ctx context.Context) (*board.User, bool) {
	u, ok := ctx.Value(userKey).(*board.User)
	return u, ok && u != nil
}
