package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/kei-test/mega/internal/domain/access"
	"github.com/kei-test/mega/internal/platform/errors"
)

type blocklistRepository struct {
	db *gorm.DB
}

func NewBlocklistRepository(db *gorm.DB) access.BlocklistRepository {
	return &blocklistRepository{db: db}
}

func (r *blocklistRepository) FindEnabledByIP(ctx context.Context, ip string) (*access.BlockedIP, error) {
	var entry access.BlockedIP
	err := r.db.WithContext(ctx).
		Where("ip_content = ? AND enabled = ?", ip, true).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "blocklist.find_enabled_by_ip", "find blocked ip", err)
	}
	return &entry, nil
}

func (r *blocklistRepository) Create(ctx context.Context, entry *access.BlockedIP) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "blocklist.create", "create blocked ip", err)
	}
	return nil
}

func (r *blocklistRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&access.BlockedIP{}, id).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "blocklist.delete", "delete blocked ip", err)
	}
	return nil
}

func (r *blocklistRepository) List(ctx context.Context, page, size int) ([]access.BlockedIP, int64, error) {
	var entries []access.BlockedIP
	var total int64
	q := r.db.WithContext(ctx).Model(&access.BlockedIP{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "blocklist.list", "count blocked ips", err)
	}
	if err := q.Order("created_at DESC").Scopes(paginate(page, size)).Find(&entries).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "blocklist.list", "list blocked ips", err)
	}
	return entries, total, nil
}

type allowlistRepository struct {
	db *gorm.DB
}

func NewAllowlistRepository(db *gorm.DB) access.AllowlistRepository {
	return &allowlistRepository{db: db}
}

func (r *allowlistRepository) FindByIP(ctx context.Context, ip string) (*access.AllowedIP, error) {
	var entry access.AllowedIP
	err := r.db.WithContext(ctx).Where("ip = ?", ip).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "allowlist.find_by_ip", "find allowed ip", err)
	}
	return &entry, nil
}

func (r *allowlistRepository) Create(ctx context.Context, entry *access.AllowedIP) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "allowlist.create", "create allowed ip", err)
	}
	return nil
}

func (r *allowlistRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&access.AllowedIP{}, id).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "allowlist.delete", "delete allowed ip", err)
	}
	return nil
}

func (r *allowlistRepository) List(ctx context.Context, page, size int) ([]access.AllowedIP, int64, error) {
	var entries []access.AllowedIP
	var total int64
	q := r.db.WithContext(ctx).Model(&access.AllowedIP{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "allowlist.list", "count allowed ips", err)
	}
	if err := q.Order("created_at DESC").Scopes(paginate(page, size)).Find(&entries).Error; err != nil {
		return nil, 0, errors.Wrap(errors.KindStorage, "allowlist.list", "list allowed ips", err)
	}
	return entries, total, nil
}
