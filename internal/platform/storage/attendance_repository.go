package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/kei-test/mega/internal/domain/attendance"
	"github.com/kei-test/mega/internal/platform/errors"
)

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) FindByUserAndDay(ctx context.Context, userID uint, day string) (*attendance.Attendance, error) {
	var row attendance.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, day).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "attendance.find_by_user_and_day", "find check-in", err)
	}
	return &row, nil
}

func (r *attendanceRepository) Create(ctx context.Context, row *attendance.Attendance) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "attendance.create", "create check-in", err)
	}
	return nil
}

func (r *attendanceRepository) ListMonth(ctx context.Context, userID uint, prefix string) ([]attendance.Attendance, error) {
	var rows []attendance.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND day LIKE ?", userID, prefix+"%").
		Order("day").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "attendance.list_month", "list check-ins", err)
	}
	return rows, nil
}
