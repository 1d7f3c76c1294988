package accesscontrol

import "context"

type ctxKey string

const contextIdentityKey ctxKey = "identity"

// IdentityFromContext returns the authenticated identity stored by the
// transport middleware. Handlers pass the value explicitly into the
// evaluator; nothing below the transport edge reads it ambiently.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextIdentityKey).(Identity)
	return id, ok
}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, id)
}
