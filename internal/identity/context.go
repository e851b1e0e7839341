package identity

import "context"

type contextKeyPrincipal struct{}

// WithPrincipal returns a context carrying the resolved principal. The
// gate calls this exactly once per request.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal{}, p)
}

// FromContext retrieves the request principal. Requests that never passed
// through the gate resolve to the anonymous sentinel.
func FromContext(ctx context.Context) Principal {
	p, ok := ctx.Value(contextKeyPrincipal{}).(Principal)
	if !ok {
		return Anonymous()
	}
	return p
}
