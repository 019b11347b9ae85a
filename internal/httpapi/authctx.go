package httpapi

import (
	"context"

	"github.com/dspetrov/trackdesk/internal/model"
)

type ctxKey string

const identityKey ctxKey = "td.identity"

// WithIdentity stores the authenticated principal in context.
func WithIdentity(ctx context.Context, ident model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFromCtx fetches the authenticated principal from context.
func IdentityFromCtx(ctx context.Context) (model.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return model.Identity{}, false
	}
	ident, ok := v.(model.Identity)
	return ident, ok
}
