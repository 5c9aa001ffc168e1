package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Context carries who is doing what to whom for one request. It is built by
// the transport layer per request and passed explicitly through the request
// context; there is no process-wide holder, so concurrent requests cannot
// observe each other's values.
type Context struct {
	// CorrelationID ties the audit row to the request logs.
	CorrelationID string
	Actor         string
	ActorID       uint
	IP            string

	TargetID       uint
	TargetUsername string
	Details        map[string]any

	At time.Time
}

// NewContext starts an audit context for one request.
func NewContext(actor string, actorID uint, ip string) *Context {
	return &Context{
		CorrelationID: uuid.NewString(),
		Actor:         actor,
		ActorID:       actorID,
		IP:            ip,
		At:            time.Now(),
	}
}

// SetTarget names the entity the operation acts on.
func (a *Context) SetTarget(id uint, username string) {
	a.TargetID = id
	a.TargetUsername = username
}

// AddDetail attaches one key to the JSON details column.
func (a *Context) AddDetail(key string, value any) {
	if a.Details == nil {
		a.Details = map[string]any{}
	}
	a.Details[key] = value
}

type contextKey struct{}

// WithContext attaches the audit context to the request context.
func WithContext(ctx context.Context, ac *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// FromContext returns the request's audit context, or nil when the request
// was not set up for auditing.
func FromContext(ctx context.Context) *Context {
	ac, _ := ctx.Value(contextKey{}).(*Context)
	return ac
}
