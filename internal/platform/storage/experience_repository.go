package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kei-test/mega/internal/domain/experience"
	"github.com/kei-test/mega/internal/platform/errors"
)

type experienceRepository struct {
	db *gorm.DB
}

func NewExperienceRepository(db *gorm.DB) experience.Repository {
	return &experienceRepository{db: db}
}

func (r *experienceRepository) Save(ctx context.Context, record *experience.Record) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "experience.save", "save record", err)
	}
	return nil
}

func (r *experienceRepository) CountForDay(ctx context.Context, userID uint, category experience.Category, at time.Time) (int64, error) {
	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	err := r.db.WithContext(ctx).Model(&experience.Record{}).
		Where("user_id = ? AND category = ? AND created_at >= ? AND created_at < ?",
			userID, category, dayStart, dayEnd).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(errors.KindStorage, "experience.count_for_day", "count records", err)
	}
	return count, nil
}

func (r *experienceRepository) List(ctx context.Context, f experience.Filter) ([]experience.Record, int64, error) {
	var rows []experience.Record
	var total int64
	q := r.db.WithContext(ctx).Model(&experience.Record{})
	if f.Username != "" {
		q = q.Where("username LIKE ?", "%"+f.Username+"%")
	}
	if f.Nickname != "" {
		q = q.Where("nickname LIKE ?", "%"+f.Nickname+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "experience.list", "count records", err)
	}
	if err := q.Order("created_at DESC").Scopes(paginate(f.Page, f.Size)).Find(&rows).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "experience.list", "list records", err)
	}
	return rows, total, nil
}
