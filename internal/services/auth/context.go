package auth

import "context"

type identityKey struct{}

// Identity is the authenticated GrowTogather member attached to a request
// once the bearer token has been validated against a live session.
type Identity struct {
	UserID int64
	SID    string
	Role   string
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext reports the requester behind ctx. Handlers mounted
// behind the auth middleware can rely on ok being true.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}
