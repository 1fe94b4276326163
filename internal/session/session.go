// Package session provides the actor context stamped onto catalog
// mutations. It is an explicit object built once at startup and injected
// into every service; per-request actors ride on the context.Context.
package session

import "context"

// AnonymousActor is attributed when no actor is known.
const AnonymousActor = "anonymous"

type ctxKey int

const (
	actorKey ctxKey = iota
	roleKey
)

// Context resolves the current actor for audit attribution.
type Context struct {
	defaultActor string
	defaultRole  string
}

// New builds a session context with process-wide defaults. Empty values
// are allowed; Actor falls back to AnonymousActor.
func New(defaultActor, defaultRole string) *Context {
	return &Context{defaultActor: defaultActor, defaultRole: defaultRole}
}

// WithActor attaches a request-scoped actor and role to ctx.
func WithActor(ctx context.Context, actor, role string) context.Context {
	ctx = context.WithValue(ctx, actorKey, actor)
	return context.WithValue(ctx, roleKey, role)
}

// Actor returns the request actor if one is attached, else the default,
// else AnonymousActor.
func (s *Context) Actor(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey).(string); ok && actor != "" {
		return actor
	}
	if s.defaultActor != "" {
		return s.defaultActor
	}
	return AnonymousActor
}

// Role returns the request role if one is attached, else the default.
// An empty string means no role is known.
func (s *Context) Role(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok && role != "" {
		return role
	}
	return s.defaultRole
}
