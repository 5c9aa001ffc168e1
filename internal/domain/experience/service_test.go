package experience

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/kei-test/mega/internal/domain/member/aggregate"
)

type memoryRepo struct {
	records []Record
}

func (m *memoryRepo) Save(_ context.Context, record *Record) error {
	record.ID = uint(len(m.records) + 1)
	m.records = append(m.records, *record)
	return nil
}

func (m *memoryRepo) CountForDay(_ context.Context, userID uint, category Category, at time.Time) (int64, error) {
	var n int64
	day := at.Format("2006-01-02")
	for _, r := range m.records {
		if r.UserID == userID && r.Category == category && r.CreatedAt.Format("2006-01-02") == day {
			n++
		}
	}
	return n, nil
}

func (m *memoryRepo) List(_ context.Context, f Filter) ([]Record, int64, error) {
	return m.records, int64(len(m.records)), nil
}

func (m *memoryRepo) byCategory(category Category) []Record {
	var out []Record
	for _, r := range m.records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

type memoryUsers struct {
	users map[uint]*aggregate.User
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*aggregate.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) FindByID(_ context.Context, id uint) (*aggregate.User, error) {
	return m.users[id], nil
}

func (m *memoryUsers) Save(_ context.Context, user *aggregate.User) error {
	m.users[user.ID] = user
	return nil
}

type memoryWallets struct {
	wallets map[uint]*aggregate.Wallet
}

func (m *memoryWallets) FindByUserID(_ context.Context, userID uint) (*aggregate.Wallet, error) {
	return m.wallets[userID], nil
}

type memoryLevels struct {
	settings map[int]*aggregate.LevelSetting
}

func (m *memoryLevels) FindByLevel(_ context.Context, level int) (*aggregate.LevelSetting, error) {
	return m.settings[level], nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo, *memoryUsers, *memoryWallets) {
	t.Helper()
	records := &memoryRepo{}
	users := &memoryUsers{users: map[uint]*aggregate.User{
		1: {ID: 1, Username: "alpha", Nickname: "Alpha", Role: aggregate.RoleUser, Level: 1},
	}}
	wallets := &memoryWallets{wallets: map[uint]*aggregate.Wallet{}}
	levels := &memoryLevels{settings: map[int]*aggregate.LevelSetting{
		2: {Level: 2, MinExp: 100},
	}}
	svc := NewService(records, users, wallets, levels, Rules{}, slog.Default())
	return svc, records, users, wallets
}

func TestService_AwardDaily_OncePerDay(t *testing.T) {
	svc, records, users, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.AwardDaily(ctx, 1, 1, "10.0.0.1", CategoryLogin); err != nil {
			t.Fatalf("award %d: %v", i, err)
		}
	}

	if got := len(records.byCategory(CategoryLogin)); got != 1 {
		t.Fatalf("expected 1 login record, got %d", got)
	}
	if exp := users.users[1].Exp; exp != 1 {
		t.Fatalf("expected exp 1, got %d", exp)
	}
	if next := users.users[1].NextLevelExp; next != 99 {
		t.Fatalf("expected next level exp 99, got %d", next)
	}
}

func TestService_AwardDaily_NewDayResetsCap(t *testing.T) {
	svc, records, _, _ := newTestService(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }
	if err := svc.AwardDaily(ctx, 1, 1, "10.0.0.1", CategoryLogin); err != nil {
		t.Fatalf("award day 1: %v", err)
	}
	svc.now = func() time.Time { return day.AddDate(0, 0, 1) }
	if err := svc.AwardDaily(ctx, 1, 1, "10.0.0.1", CategoryLogin); err != nil {
		t.Fatalf("award day 2: %v", err)
	}

	if got := len(records.byCategory(CategoryLogin)); got != 2 {
		t.Fatalf("expected 2 records across two days, got %d", got)
	}
}

func TestService_AwardDailyCapped_FiveThenNoOp(t *testing.T) {
	svc, records, users, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		if err := svc.AwardDailyCapped(ctx, 1, 2, "10.0.0.1", CategoryComment); err != nil {
			t.Fatalf("award %d: %v", i, err)
		}
	}

	if got := len(records.byCategory(CategoryComment)); got != 5 {
		t.Fatalf("expected 5 comment records, got %d", got)
	}
	if exp := users.users[1].Exp; exp != 10 {
		t.Fatalf("expected exp 10, got %d", exp)
	}
}

func TestService_MilestoneBonus(t *testing.T) {
	tests := []struct {
		name        string
		accumulated int64
		award       int64
		wantBonus   int64
		wantRecords int
	}{
		{
			name:        "no boundary crossed",
			accumulated: 500_000,
			award:       1,
			wantBonus:   0,
			wantRecords: 0,
		},
		{
			name:        "single boundary",
			accumulated: 999_999,
			award:       1,
			wantBonus:   10,
			wantRecords: 1,
		},
		{
			name:        "two boundaries in one award",
			accumulated: 999_999,
			award:       1_000_001,
			wantBonus:   20,
			wantRecords: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, records, users, wallets := newTestService(t)
			wallets.wallets[1] = &aggregate.Wallet{
				UserID:               1,
				AccumulatedSportsBet: tt.accumulated,
			}

			if err := svc.AwardDaily(context.Background(), 1, tt.award, "10.0.0.1", CategorySportsBet); err != nil {
				t.Fatalf("award: %v", err)
			}

			bonusRecords := records.byCategory(CategorySportsBetCumulative)
			if len(bonusRecords) != tt.wantRecords {
				t.Fatalf("expected %d bonus records, got %d", tt.wantRecords, len(bonusRecords))
			}
			if tt.wantRecords > 0 && bonusRecords[0].Exp != tt.wantBonus {
				t.Fatalf("expected bonus %d, got %d", tt.wantBonus, bonusRecords[0].Exp)
			}
			if exp := users.users[1].Exp; exp != tt.award+tt.wantBonus {
				t.Fatalf("expected total exp %d, got %d", tt.award+tt.wantBonus, exp)
			}
		})
	}
}

func TestService_MilestoneBonus_NoWallet(t *testing.T) {
	svc, records, _, _ := newTestService(t)

	if err := svc.AwardDaily(context.Background(), 1, 1, "10.0.0.1", CategoryCasinoBet); err != nil {
		t.Fatalf("award: %v", err)
	}
	if got := len(records.byCategory(CategoryCasinoBetCumulative)); got != 0 {
		t.Fatalf("expected no bonus records without a wallet, got %d", got)
	}
}
