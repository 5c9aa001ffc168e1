package experience

import (
	"context"
	"log/slog"
	"time"

	"github.com/kei-test/mega/internal/domain/member/aggregate"
	"github.com/kei-test/mega/internal/domain/member/repository"
	"github.com/kei-test/mega/internal/platform/errors"
)

// Rules configures the milestone bonus and the shared daily cap.
type Rules struct {
	// MilestoneUnit is the accumulated-stake boundary that grants a bonus.
	MilestoneUnit int64
	// MilestoneBonus is the exp granted per crossed boundary.
	MilestoneBonus int64
	// DailyCap bounds AwardDailyCapped per user, category and day.
	DailyCap int64
}

// Service dispatches experience side effects. Award methods are best-effort
// from the caller's point of view; the read-then-insert window around the
// daily caps is accepted, so two racing requests may both pass the count
// check. Caps hold under sequential use.
type Service struct {
	records Repository
	users   repository.UserRepository
	wallets repository.WalletRepository
	levels  repository.LevelRepository
	rules   Rules
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(records Repository, users repository.UserRepository, wallets repository.WalletRepository, levels repository.LevelRepository, rules Rules, logger *slog.Logger) *Service {
	if rules.MilestoneUnit <= 0 {
		rules.MilestoneUnit = 1_000_000
	}
	if rules.MilestoneBonus <= 0 {
		rules.MilestoneBonus = 10
	}
	if rules.DailyCap <= 0 {
		rules.DailyCap = 5
	}
	return &Service{
		records: records,
		users:   users,
		wallets: wallets,
		levels:  levels,
		rules:   rules,
		logger:  logger,
		now:     time.Now,
	}
}

// AwardDaily grants exp at most once per user, category and calendar day.
// A repeat call within the same day is a silent no-op. Wager-linked
// categories additionally get the milestone bonus, which bypasses the cap.
func (s *Service) AwardDaily(ctx context.Context, userID uint, exp int64, ip string, category Category) error {
	const op = "experience.award_daily"
	return s.award(ctx, op, userID, exp, ip, category, 1)
}

// AwardDailyCapped grants exp up to DailyCap times per user, category and
// calendar day; calls past the cap are silent no-ops.
func (s *Service) AwardDailyCapped(ctx context.Context, userID uint, exp int64, ip string, category Category) error {
	const op = "experience.award_daily_capped"
	return s.award(ctx, op, userID, exp, ip, category, s.rules.DailyCap)
}

func (s *Service) award(ctx context.Context, op string, userID uint, exp int64, ip string, category Category, limit int64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return errors.Wrap(errors.KindStorage, op, "load user", err)
	}
	if user == nil {
		return errors.New(errors.KindDomain, op, "user not found")
	}

	now := s.now()
	count, err := s.records.CountForDay(ctx, userID, category, now)
	if err != nil {
		return errors.Wrap(errors.KindStorage, op, "count today", err)
	}
	if count >= limit {
		return nil
	}

	if err := s.records.Save(ctx, &Record{
		UserID:    userID,
		Username:  user.Username,
		Nickname:  user.Nickname,
		Exp:       exp,
		IP:        ip,
		Category:  category,
		CreatedAt: now,
	}); err != nil {
		return errors.Wrap(errors.KindStorage, op, "save record", err)
	}

	bonus, err := s.milestoneBonus(ctx, user, exp, ip, category, now)
	if err != nil {
		return err
	}

	user.Exp += exp + bonus
	user.NextLevelExp = s.nextLevelExp(ctx, user)
	if err := s.users.Save(ctx, user); err != nil {
		return errors.Wrap(errors.KindStorage, op, "save user", err)
	}
	return nil
}

// milestoneBonus grants MilestoneBonus exp per MilestoneUnit boundary the
// accumulated stake crosses with this award. Crossing n boundaries in one
// call yields a single record worth n times the bonus, recorded under the
// cumulative category so it never counts against the daily cap.
func (s *Service) milestoneBonus(ctx context.Context, user *aggregate.User, exp int64, ip string, category Category, now time.Time) (int64, error) {
	const op = "experience.milestone"
	cumulative := category.cumulative()
	if cumulative == "" {
		return 0, nil
	}
	wallet, err := s.wallets.FindByUserID(ctx, user.ID)
	if err != nil {
		return 0, errors.Wrap(errors.KindStorage, op, "load wallet", err)
	}
	if wallet == nil {
		return 0, nil
	}

	var accumulated int64
	switch category {
	case CategorySportsBet:
		accumulated = wallet.AccumulatedSportsBet
	case CategoryCasinoBet:
		accumulated = wallet.AccumulatedCasinoBet
	case CategorySlotBet:
		accumulated = wallet.AccumulatedSlotBet
	}

	crossed := (accumulated+exp)/s.rules.MilestoneUnit - accumulated/s.rules.MilestoneUnit
	if crossed <= 0 {
		return 0, nil
	}
	bonus := crossed * s.rules.MilestoneBonus
	if err := s.records.Save(ctx, &Record{
		UserID:    user.ID,
		Username:  user.Username,
		Nickname:  user.Nickname,
		Exp:       bonus,
		IP:        ip,
		Category:  cumulative,
		CreatedAt: now,
	}); err != nil {
		return 0, errors.Wrap(errors.KindStorage, op, "save bonus record", err)
	}
	return bonus, nil
}

// nextLevelExp looks up the threshold one level above the user's and returns
// the exp still missing; 0 when no higher level exists. A lookup failure is
// logged and treated as max level so an award never fails on it.
func (s *Service) nextLevelExp(ctx context.Context, user *aggregate.User) int64 {
	setting, err := s.levels.FindByLevel(ctx, user.Level+1)
	if err != nil {
		s.logger.Warn("level threshold lookup failed", "level", user.Level+1, "error", err)
		return 0
	}
	if setting == nil {
		return 0
	}
	return setting.MinExp - user.Exp
}

// List returns filtered, paginated experience records for the admin screens.
func (s *Service) List(ctx context.Context, f Filter) ([]Record, int64, error) {
	const op = "experience.list"
	records, total, err := s.records.List(ctx, f)
	if err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, op, "list records", err)
	}
	return records, total, nil
}
