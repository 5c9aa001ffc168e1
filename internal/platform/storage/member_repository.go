package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/kei-test/mega/internal/domain/member/aggregate"
	"github.com/kei-test/mega/internal/domain/member/repository"
	"github.com/kei-test/mega/internal/platform/errors"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByUsername resolves an account including retired ones; the access
// gate decides what a soft-deleted account may do.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*aggregate.User, error) {
	var user aggregate.User
	err := r.db.WithContext(ctx).Unscoped().
		Where("username = ?", username).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "user.find_by_username", "find user", err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*aggregate.User, error) {
	var user aggregate.User
	if err := r.db.WithContext(ctx).Unscoped().First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "user.find_by_id", "find user", err)
	}
	return &user, nil
}

func (r *userRepository) Save(ctx context.Context, user *aggregate.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "user.save", "save user", err)
	}
	return nil
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) repository.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) FindByUserID(ctx context.Context, userID uint) (*aggregate.Wallet, error) {
	var wallet aggregate.Wallet
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "wallet.find_by_user_id", "find wallet", err)
	}
	return &wallet, nil
}

type levelRepository struct {
	db *gorm.DB
}

func NewLevelRepository(db *gorm.DB) repository.LevelRepository {
	return &levelRepository{db: db}
}

func (r *levelRepository) FindByLevel(ctx context.Context, level int) (*aggregate.LevelSetting, error) {
	var setting aggregate.LevelSetting
	err := r.db.WithContext(ctx).Where("level = ?", level).First(&setting).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "level.find_by_level", "find level setting", err)
	}
	return &setting, nil
}
