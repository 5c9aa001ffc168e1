package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/kei-test/mega/internal/domain/experience"
	"github.com/kei-test/mega/internal/platform/errors"
)

// Attendance is one check-in. Day is the local calendar day, one row per
// member per day.
type Attendance struct {
	ID        uint      `gorm:"primaryKey"                                    json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_attendance_user_day;not null"  json:"userId"`
	Day       string    `gorm:"uniqueIndex:idx_attendance_user_day;type:varchar(10);not null" json:"day"`
	IP        string    `gorm:"type:varchar(64)"                              json:"ip"`
	CreatedAt time.Time `json:"createdAt"`
}

const dayFormat = "2006-01-02"

// Repository persists check-ins.
type Repository interface {
	FindByUserAndDay(ctx context.Context, userID uint, day string) (*Attendance, error)
	Create(ctx context.Context, row *Attendance) error
	ListMonth(ctx context.Context, userID uint, prefix string) ([]Attendance, error)
}

// ExperienceAwarder grants the check-in bonus.
type ExperienceAwarder interface {
	AwardDaily(ctx context.Context, userID uint, exp int64, ip string, category experience.Category) error
}

// Service handles member check-ins and feeds the experience dispatcher.
type Service struct {
	repo    Repository
	awarder ExperienceAwarder
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, awarder ExperienceAwarder, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		awarder: awarder,
		logger:  logger,
		now:     time.Now,
	}
}

// CheckIn records today's attendance. A second check-in on the same day is
// rejected; the experience bonus is best effort.
func (s *Service) CheckIn(ctx context.Context, userID uint, ip string) (*Attendance, error) {
	const op = "attendance.check_in"
	day := s.now().Format(dayFormat)

	existing, err := s.repo.FindByUserAndDay(ctx, userID, day)
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "lookup", err)
	}
	if existing != nil {
		return nil, errors.New(errors.KindDomain, op, "already checked in today")
	}

	row := &Attendance{UserID: userID, Day: day, IP: ip}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "create", err)
	}

	if err := s.awarder.AwardDaily(ctx, userID, 1, ip, experience.CategoryAttendance); err != nil {
		s.logger.Warn("attendance exp award failed", "userId", userID, "error", err)
	}
	return row, nil
}

// Month lists the member's check-ins for one calendar month.
func (s *Service) Month(ctx context.Context, userID uint, year int, month time.Month) ([]Attendance, error) {
	const op = "attendance.month"
	prefix := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	rows, err := s.repo.ListMonth(ctx, userID, prefix)
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, op, "list", err)
	}
	return rows, nil
}
