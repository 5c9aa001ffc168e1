package aggregate

import (
	"time"

	"gorm.io/gorm"
)

// Role classifies what a member account may do and which login rules apply.
type Role string

const (
	RoleUser    Role = "user"
	RoleTest    Role = "test"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleGuest   Role = "guest"
)

// Elevated reports whether the role is held to the stricter
// approved-IP login rules.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanLogin reports whether the role is allowed to authenticate at all.
func (r Role) CanLogin() bool {
	switch r {
	case RoleUser, RoleTest, RoleAdmin, RoleManager:
		return true
	default:
		return false
	}
}

// AdminStatus flags elevated accounts as usable or administratively frozen.
type AdminStatus string

const (
	AdminStatusUsable   AdminStatus = "usable"
	AdminStatusUnusable AdminStatus = "unusable"
)

// User is a member account. Accounts are never physically deleted; the
// DeletedAt flag retires them while keeping history rows resolvable.
type User struct {
	ID           uint           `gorm:"primaryKey"                             json:"id"`
	Username     string         `gorm:"type:varchar(64);uniqueIndex;not null"  json:"username"`
	Password     string         `                                              json:"-"`
	Nickname     string         `gorm:"type:varchar(64)"                       json:"nickname"`
	Name         string         `gorm:"type:varchar(64)"                       json:"name"`
	Role         Role           `gorm:"type:varchar(16);index;not null"        json:"role"`
	AdminStatus  AdminStatus    `gorm:"type:varchar(16);default:'usable'"      json:"adminStatus"`
	ApproveIP    *string        `gorm:"type:varchar(64)"                       json:"approveIp"`
	Distributor  string         `gorm:"type:varchar(64)"                       json:"distributor"`
	DeletedAt    gorm.DeletedAt `gorm:"index"                                  json:"-"`

	LastVisit           *time.Time `json:"lastVisit"`
	VisitCount          int64      `gorm:"default:0" json:"visitCount"`
	LastAccessedIP      string     `gorm:"type:varchar(64)" json:"lastAccessedIp"`
	LastAccessedDevice  string     `gorm:"type:varchar(16)" json:"lastAccessedDevice"`
	LastAccessedCountry string     `gorm:"type:varchar(8)"  json:"lastAccessedCountry"`

	Exp          int64 `gorm:"default:0" json:"exp"`
	Level        int   `gorm:"default:1" json:"level"`
	NextLevelExp int64 `gorm:"default:0" json:"nextLevelExp"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Wallet carries member balances. The login core reads it to populate the
// login response and the wager milestone counters; it never debits.
type Wallet struct {
	ID                   uint  `gorm:"primaryKey"       json:"id"`
	UserID               uint  `gorm:"uniqueIndex;not null" json:"userId"`
	SportsBalance        int64 `gorm:"default:0"        json:"sportsBalance"`
	CasinoBalance        int64 `gorm:"default:0"        json:"casinoBalance"`
	Point                int64 `gorm:"default:0"        json:"point"`
	AccumulatedSportsBet int64 `gorm:"default:0"        json:"accumulatedSportsBet"`
	AccumulatedCasinoBet int64 `gorm:"default:0"        json:"accumulatedCasinoBet"`
	AccumulatedSlotBet   int64 `gorm:"default:0"        json:"accumulatedSlotBet"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LevelSetting maps a level to the minimum cumulative experience it requires.
type LevelSetting struct {
	ID     uint  `gorm:"primaryKey"        json:"id"`
	Level  int   `gorm:"uniqueIndex;not null" json:"level"`
	MinExp int64 `gorm:"not null"          json:"minExp"`
}
