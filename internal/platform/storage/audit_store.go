package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/kei-test/mega/internal/domain/audit"
	"github.com/kei-test/mega/internal/platform/errors"
)

type auditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) audit.Store {
	return &auditStore{db: db}
}

func (s *auditStore) Save(ctx context.Context, entry *audit.Entry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "audit.save", "save entry", err)
	}
	return nil
}

func (s *auditStore) List(ctx context.Context, f audit.Filter) ([]audit.Entry, int64, error) {
	var rows []audit.Entry
	var total int64
	q := s.db.WithContext(ctx).Model(&audit.Entry{})
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Actor != "" {
		q = q.Where("actor = ?", f.Actor)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "audit.list", "count entries", err)
	}
	if err := q.Order("created_at DESC").Scopes(paginate(f.Page, f.Size)).Find(&rows).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "audit.list", "list entries", err)
	}
	return rows, total, nil
}
