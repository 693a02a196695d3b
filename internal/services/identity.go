package services

import (
	"context"

	"github.com/mg3/promag-api/types"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the authenticated caller.
func WithIdentity(ctx context.Context, identity types.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the caller stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (types.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(types.Identity)
	return identity, ok
}
