package storage

import (
	"gorm.io/gorm"

	"github.com/kei-test/mega/internal/domain/member/aggregate"
	"github.com/kei-test/mega/internal/platform/errors"
)

// EnsureAdmin creates the bootstrap admin account when none exists. The
// approved IP restricts where the account can log in from.
func EnsureAdmin(db *gorm.DB, username, passwordHash, approveIP string) error {
	const op = "storage.ensure_admin"

	var count int64
	if err := db.Model(&aggregate.User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return errors.Wrap(errors.KindStorage, op, "check admin", err)
	}
	if count > 0 {
		return nil
	}

	admin := &aggregate.User{
		Username:    username,
		Password:    passwordHash,
		Nickname:    username,
		Role:        aggregate.RoleAdmin,
		AdminStatus: aggregate.AdminStatusUsable,
		Level:       1,
	}
	if approveIP != "" {
		admin.ApproveIP = &approveIP
	}
	if err := db.Create(admin).Error; err != nil {
		return errors.Wrap(errors.KindStorage, op, "create admin", err)
	}
	return nil
}
