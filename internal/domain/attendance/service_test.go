package attendance

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kei-test/mega/internal/domain/experience"
	"github.com/kei-test/mega/internal/platform/errors"
	platformtesting "github.com/kei-test/mega/internal/platform/testing"
)

type memoryAttendance struct {
	rows []Attendance
}

func (m *memoryAttendance) FindByUserAndDay(_ context.Context, userID uint, day string) (*Attendance, error) {
	for i := range m.rows {
		if m.rows[i].UserID == userID && m.rows[i].Day == day {
			return &m.rows[i], nil
		}
	}
	return nil, nil
}

func (m *memoryAttendance) Create(_ context.Context, row *Attendance) error {
	row.ID = uint(len(m.rows) + 1)
	m.rows = append(m.rows, *row)
	return nil
}

func (m *memoryAttendance) ListMonth(_ context.Context, userID uint, prefix string) ([]Attendance, error) {
	var out []Attendance
	for _, r := range m.rows {
		if r.UserID == userID && strings.HasPrefix(r.Day, prefix) {
			out = append(out, r)
		}
	}
	return out, nil
}

type recordingAwarder struct {
	calls []experience.Category
}

func (r *recordingAwarder) AwardDaily(_ context.Context, _ uint, _ int64, _ string, category experience.Category) error {
	r.calls = append(r.calls, category)
	return nil
}

func TestService_CheckIn_OncePerDay(t *testing.T) {
	repo := &memoryAttendance{}
	awarder := &recordingAwarder{}
	svc := NewService(repo, awarder, platformtesting.Logger(t))

	row, err := svc.CheckIn(context.Background(), 1, "10.0.0.1")
	platformtesting.AssertNoError(t, err, "first check-in")
	if row.Day == "" {
		t.Fatal("expected day to be set")
	}

	_, err = svc.CheckIn(context.Background(), 1, "10.0.0.1")
	if !errors.IsKind(err, errors.KindDomain) {
		t.Fatalf("expected domain error on repeat check-in, got %v", err)
	}

	if len(awarder.calls) != 1 || awarder.calls[0] != experience.CategoryAttendance {
		t.Fatalf("expected one attendance award, got %v", awarder.calls)
	}
}

func TestService_Month(t *testing.T) {
	repo := &memoryAttendance{}
	awarder := &recordingAwarder{}
	svc := NewService(repo, awarder, platformtesting.Logger(t))

	day := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }
	if _, err := svc.CheckIn(context.Background(), 1, "10.0.0.1"); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	svc.now = func() time.Time { return day.AddDate(0, 1, 0) }
	if _, err := svc.CheckIn(context.Background(), 1, "10.0.0.1"); err != nil {
		t.Fatalf("check-in next month: %v", err)
	}

	rows, err := svc.Month(context.Background(), 1, 2026, time.March)
	platformtesting.AssertNoError(t, err, "month")
	if len(rows) != 1 || rows[0].Day != "2026-03-05" {
		t.Fatalf("expected one March row, got %+v", rows)
	}
}
