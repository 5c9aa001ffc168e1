package history

import (
	"context"
	"time"
)

// Channel tags where a login event is fanned out to. One event type covers
// every historical log; sinks subscribe to the channels they persist.
type Channel string

const (
	// ChannelAttempt is the raw attempt log, written during the attempt
	// phase even for unknown usernames.
	ChannelAttempt Channel = "attempt"
	// ChannelAdmin is the outcome-tagged admin log with device/country.
	ChannelAdmin Channel = "admin"
	// ChannelMirror is the best-effort external mirror copy.
	ChannelMirror Channel = "mirror"
	// ChannelSuccess covers the post-authentication detail records.
	ChannelSuccess Channel = "success"
)

// Event is a single login observation. Records are append-only; retries may
// produce duplicates and no dedup key exists.
type Event struct {
	Channel     Channel   `json:"channel"`
	UserID      uint      `json:"userId,omitempty"`
	Username    string    `json:"username"`
	Nickname    string    `json:"nickname,omitempty"`
	Distributor string    `json:"distributor,omitempty"`
	Success     bool      `json:"success"`
	IP          string    `json:"ip"`
	CountryCode string    `json:"countryCode,omitempty"`
	Device      string    `json:"device,omitempty"`
	UserAgent   string    `json:"userAgent,omitempty"`
	At          time.Time `json:"at"`

	// RecordConnection asks the success sink to also append a connection
	// info row; set for ordinary and test members only.
	RecordConnection bool `json:"-"`
}

// LoginAttempt is the raw attempt log row. Username holds the submitted
// input, resolved or not.
type LoginAttempt struct {
	ID          uint      `gorm:"primaryKey"       json:"id"`
	Username    string    `gorm:"type:varchar(64);index" json:"username"`
	Nickname    string    `gorm:"type:varchar(64)" json:"nickname"`
	IP          string    `gorm:"type:varchar(64);index" json:"ip"`
	CountryCode string    `gorm:"type:varchar(8)"  json:"countryCode"`
	Device      string    `gorm:"type:varchar(16)" json:"device"`
	AttemptedAt time.Time `gorm:"index"            json:"attemptedAt"`
}

// AdminLoginAttempt is the outcome-tagged admin history row.
type AdminLoginAttempt struct {
	ID          uint      `gorm:"primaryKey"       json:"id"`
	Username    string    `gorm:"type:varchar(64);index" json:"username"`
	Nickname    string    `gorm:"type:varchar(64)" json:"nickname"`
	Success     bool      `gorm:"index"            json:"success"`
	IP          string    `gorm:"type:varchar(64)" json:"ip"`
	CountryCode string    `gorm:"type:varchar(8)"  json:"countryCode"`
	Device      string    `gorm:"type:varchar(16)" json:"device"`
	AttemptedAt time.Time `gorm:"index"            json:"attemptedAt"`
}

// LoginSuccess is the post-authentication detail row.
type LoginSuccess struct {
	ID        uint      `gorm:"primaryKey"       json:"id"`
	UserID    uint      `gorm:"index;not null"   json:"userId"`
	IP        string    `gorm:"type:varchar(64)" json:"ip"`
	UserAgent string    `gorm:"type:varchar(255)" json:"userAgent"`
	LoggedAt  time.Time `gorm:"index"            json:"loggedAt"`
}

// ConnectionInfo records which member connected from which address; the
// admin screens group it by IP to spot shared addresses.
type ConnectionInfo struct {
	ID             uint      `gorm:"primaryKey"       json:"id"`
	Username       string    `gorm:"type:varchar(64);index" json:"username"`
	Nickname       string    `gorm:"type:varchar(64)" json:"nickname"`
	Distributor    string    `gorm:"type:varchar(64)" json:"distributor"`
	AccessedIP     string    `gorm:"type:varchar(64);index" json:"accessedIp"`
	AccessedDevice string    `gorm:"type:varchar(16)" json:"accessedDevice"`
	LastVisit      time.Time `gorm:"index"            json:"lastVisit"`
}

// Filter narrows history queries on the admin screens.
type Filter struct {
	Username string
	Nickname string
	IP       string
	From     *time.Time
	To       *time.Time
	Page     int
	Size     int
}

// Store persists the fanned-out login logs.
type Store interface {
	SaveAttempt(ctx context.Context, row *LoginAttempt) error
	SaveAdminAttempt(ctx context.Context, row *AdminLoginAttempt) error
	SaveSuccess(ctx context.Context, row *LoginSuccess) error
	SaveConnectionInfo(ctx context.Context, row *ConnectionInfo) error

	ListAttempts(ctx context.Context, f Filter) ([]LoginAttempt, int64, error)
	ListAdminAttempts(ctx context.Context, f Filter) ([]AdminLoginAttempt, int64, error)
	ListConnectionInfos(ctx context.Context, f Filter) ([]ConnectionInfo, error)
}
