package experience

import (
	"context"
	"time"
)

// Category names a reward source. Daily caps and milestone rules key off it.
type Category string

const (
	CategoryLogin      Category = "login"
	CategoryAttendance Category = "attendance"
	CategoryComment    Category = "comment"
	CategorySportsBet  Category = "sports_bet"
	CategoryCasinoBet  Category = "casino_bet"
	CategorySlotBet    Category = "slot_bet"

	// Cumulative variants record wager milestone bonuses; they bypass the
	// daily caps.
	CategorySportsBetCumulative Category = "sports_bet_cumulative"
	CategoryCasinoBetCumulative Category = "casino_bet_cumulative"
	CategorySlotBetCumulative   Category = "slot_bet_cumulative"
)

// cumulative returns the milestone-bonus category for a wager-linked
// category, or empty when the category carries no milestone rule.
func (c Category) cumulative() Category {
	switch c {
	case CategorySportsBet:
		return CategorySportsBetCumulative
	case CategoryCasinoBet:
		return CategoryCasinoBetCumulative
	case CategorySlotBet:
		return CategorySlotBetCumulative
	default:
		return ""
	}
}

// Record is one experience ledger entry. Immutable once written.
type Record struct {
	ID        uint      `gorm:"primaryKey"             json:"id"`
	UserID    uint      `gorm:"index;not null"         json:"userId"`
	Username  string    `gorm:"type:varchar(64);index" json:"username"`
	Nickname  string    `gorm:"type:varchar(64)"       json:"nickname"`
	Exp       int64     `gorm:"not null"               json:"exp"`
	IP        string    `gorm:"type:varchar(64)"       json:"ip"`
	Category  Category  `gorm:"type:varchar(32);index" json:"category"`
	CreatedAt time.Time `gorm:"index"                  json:"createdAt"`
}

// Filter narrows experience record queries.
type Filter struct {
	Username string
	Nickname string
	Category Category
	Page     int
	Size     int
}

// Repository persists and counts experience records.
type Repository interface {
	Save(ctx context.Context, record *Record) error
	// CountForDay counts records for (user, category) within the local
	// calendar day containing at.
	CountForDay(ctx context.Context, userID uint, category Category, at time.Time) (int64, error)
	List(ctx context.Context, f Filter) ([]Record, int64, error)
}
