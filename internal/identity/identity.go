// Package identity carries the resolved caller of a request.
package identity

import "context"

// Caller is the authenticated principal behind a request.
type Caller struct {
	UserID    uint
	Anonymous bool
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying caller.
func NewContext(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// FromContext returns the caller stored in ctx, or nil when the request is unauthenticated.
func FromContext(ctx context.Context) *Caller {
	caller, _ := ctx.Value(contextKey{}).(*Caller)
	return caller
}
