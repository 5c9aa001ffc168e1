package repository

import (
	"context"

	"github.com/kei-test/mega/internal/domain/member/aggregate"
)

// UserRepository resolves and persists member accounts.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*aggregate.User, error)
	FindByID(ctx context.Context, id uint) (*aggregate.User, error)
	Save(ctx context.Context, user *aggregate.User) error
}

// WalletRepository provides read access to member balances.
type WalletRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*aggregate.Wallet, error)
}

// LevelRepository looks up the experience threshold for a level.
type LevelRepository interface {
	FindByLevel(ctx context.Context, level int) (*aggregate.LevelSetting, error)
}
