package access

import (
	"context"
	"time"
)

// BlockedIP is a blocklist entry. An enabled entry rejects every login from
// the address regardless of role or allowlist membership.
type BlockedIP struct {
	ID        uint      `gorm:"primaryKey"                            json:"id"`
	IPContent string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"ipContent"`
	Note      string    `gorm:"type:varchar(255)"                     json:"note"`
	Enabled   bool      `gorm:"default:true"                          json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

// AllowedIP is an allowlist entry. Allowlisted addresses skip the noisy
// attempt logs for privileged logins; they do not override the blocklist.
type AllowedIP struct {
	ID         uint      `gorm:"primaryKey"                            json:"id"`
	IP         string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"ip"`
	MemoStatus string    `gorm:"type:varchar(16)"                      json:"memoStatus"`
	Memo       string    `gorm:"type:varchar(255)"                     json:"memo"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BlocklistRepository manages blocklist entries.
type BlocklistRepository interface {
	FindEnabledByIP(ctx context.Context, ip string) (*BlockedIP, error)
	Create(ctx context.Context, entry *BlockedIP) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page, size int) ([]BlockedIP, int64, error)
}

// AllowlistRepository manages allowlist entries.
type AllowlistRepository interface {
	FindByIP(ctx context.Context, ip string) (*AllowedIP, error)
	Create(ctx context.Context, entry *AllowedIP) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page, size int) ([]AllowedIP, int64, error)
}

// BlocklistReader is the lookup surface the gate needs; the cached and the
// direct repository implementations both satisfy it.
type BlocklistReader interface {
	IsBlocked(ctx context.Context, ip string) (bool, error)
}

// DirectBlocklist answers verdicts straight from the repository. It is the
// reader used when no cache is configured.
type DirectBlocklist struct {
	Repo BlocklistRepository
}

func (d DirectBlocklist) IsBlocked(ctx context.Context, ip string) (bool, error) {
	entry, err := d.Repo.FindEnabledByIP(ctx, ip)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}
