package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/kei-test/mega/internal/domain/history"
	"github.com/kei-test/mega/internal/platform/errors"
)

type historyStore struct {
	db *gorm.DB
}

func NewHistoryStore(db *gorm.DB) history.Store {
	return &historyStore{db: db}
}

func (s *historyStore) SaveAttempt(ctx context.Context, row *history.LoginAttempt) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "history.save_attempt", "save attempt", err)
	}
	return nil
}

func (s *historyStore) SaveAdminAttempt(ctx context.Context, row *history.AdminLoginAttempt) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "history.save_admin_attempt", "save admin attempt", err)
	}
	return nil
}

func (s *historyStore) SaveSuccess(ctx context.Context, row *history.LoginSuccess) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "history.save_success", "save success", err)
	}
	return nil
}

func (s *historyStore) SaveConnectionInfo(ctx context.Context, row *history.ConnectionInfo) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "history.save_connection_info", "save connection info", err)
	}
	return nil
}

func (s *historyStore) ListAttempts(ctx context.Context, f history.Filter) ([]history.LoginAttempt, int64, error) {
	var rows []history.LoginAttempt
	var total int64
	q := s.db.WithContext(ctx).Model(&history.LoginAttempt{})
	q = applyHistoryFilter(q, f, "attempted_at")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "history.list_attempts", "count attempts", err)
	}
	if err := q.Order("attempted_at DESC").Scopes(paginate(f.Page, f.Size)).Find(&rows).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "history.list_attempts", "list attempts", err)
	}
	return rows, total, nil
}

func (s *historyStore) ListAdminAttempts(ctx context.Context, f history.Filter) ([]history.AdminLoginAttempt, int64, error) {
	var rows []history.AdminLoginAttempt
	var total int64
	q := s.db.WithContext(ctx).Model(&history.AdminLoginAttempt{})
	q = applyHistoryFilter(q, f, "attempted_at")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "history.list_admin_attempts", "count admin attempts", err)
	}
	if err := q.Order("attempted_at DESC").Scopes(paginate(f.Page, f.Size)).Find(&rows).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "history.list_admin_attempts", "list admin attempts", err)
	}
	return rows, total, nil
}

// ListConnectionInfos returns connection rows ordered by address so the
// admin screen can group shared IPs together.
func (s *historyStore) ListConnectionInfos(ctx context.Context, f history.Filter) ([]history.ConnectionInfo, error) {
	var rows []history.ConnectionInfo
	q := s.db.WithContext(ctx).Model(&history.ConnectionInfo{})
	if f.Username != "" {
		q = q.Where("username LIKE ?", "%"+f.Username+"%")
	}
	if f.Nickname != "" {
		q = q.Where("nickname LIKE ?", "%"+f.Nickname+"%")
	}
	if f.IP != "" {
		q = q.Where("accessed_ip = ?", f.IP)
	}
	if f.From != nil {
		q = q.Where("last_visit >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("last_visit < ?", *f.To)
	}
	if err := q.Order("accessed_ip, last_visit DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "history.list_connection_infos", "list connection infos", err)
	}
	return rows, nil
}

func applyHistoryFilter(q *gorm.DB, f history.Filter, timeColumn string) *gorm.DB {
	if f.Username != "" {
		q = q.Where("username LIKE ?", "%"+f.Username+"%")
	}
	if f.Nickname != "" {
		q = q.Where("nickname LIKE ?", "%"+f.Nickname+"%")
	}
	if f.IP != "" {
		q = q.Where("ip = ?", f.IP)
	}
	if f.From != nil {
		q = q.Where(timeColumn+" >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where(timeColumn+" < ?", *f.To)
	}
	return q
}
