package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

// Entry is one persisted audit row.
type Entry struct {
	ID             uint           `gorm:"primaryKey"             json:"id"`
	CorrelationID  string         `gorm:"type:varchar(36);index" json:"correlationId"`
	Action         string         `gorm:"type:varchar(64);index" json:"action"`
	Actor          string         `gorm:"type:varchar(64);index" json:"actor"`
	ActorID        uint           `gorm:"index"                  json:"actorId"`
	IP             string         `gorm:"type:varchar(64)"       json:"ip"`
	TargetID       uint           `gorm:"index"                  json:"targetId"`
	TargetUsername string         `gorm:"type:varchar(64);index" json:"targetUsername"`
	Details        datatypes.JSON `json:"details"`
	CreatedAt      time.Time      `gorm:"index"                  json:"createdAt"`
}

// Filter narrows audit queries.
type Filter struct {
	Action string
	Actor  string
	Page   int
	Size   int
}

// Store persists audit entries.
type Store interface {
	Save(ctx context.Context, entry *Entry) error
	List(ctx context.Context, f Filter) ([]Entry, int64, error)
}

// Recorder wraps mutating operations and writes an audit row only when the
// operation succeeds. Failed operations leave no trace.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record runs fn and, on success, persists the request's audit context under
// the given action. A missing audit context skips persistence; a failed
// write is logged but never fails the already-committed operation.
func (r *Recorder) Record(ctx context.Context, action string, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}

	ac := FromContext(ctx)
	if ac == nil {
		return nil
	}

	entry := &Entry{
		CorrelationID:  ac.CorrelationID,
		Action:         action,
		Actor:          ac.Actor,
		ActorID:        ac.ActorID,
		IP:             ac.IP,
		TargetID:       ac.TargetID,
		TargetUsername: ac.TargetUsername,
		CreatedAt:      ac.At,
	}
	if len(ac.Details) > 0 {
		raw, err := sonic.Marshal(ac.Details)
		if err != nil {
			r.logger.Warn("audit details encode failed",
				"action", action, "error", err)
		} else {
			entry.Details = datatypes.JSON(raw)
		}
	}
	if err := r.store.Save(ctx, entry); err != nil {
		r.logger.Error("audit write failed",
			"action", action, "actor", ac.Actor, "error", err)
	}
	return nil
}

// List returns filtered audit entries for the admin screens.
func (r *Recorder) List(ctx context.Context, f Filter) ([]Entry, int64, error) {
	return r.store.List(ctx, f)
}
