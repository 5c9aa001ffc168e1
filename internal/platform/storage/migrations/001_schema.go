package migrations

import (
	"gorm.io/gorm"

	"github.com/kei-test/mega/internal/domain/access"
	"github.com/kei-test/mega/internal/domain/attendance"
	"github.com/kei-test/mega/internal/domain/audit"
	"github.com/kei-test/mega/internal/domain/experience"
	"github.com/kei-test/mega/internal/domain/history"
	"github.com/kei-test/mega/internal/domain/member/aggregate"
)

// Migration001Schema creates every table.
type Migration001Schema struct{}

func (m *Migration001Schema) Version() string     { return "001" }
func (m *Migration001Schema) Description() string { return "initial schema" }

func (m *Migration001Schema) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&aggregate.User{},
		&aggregate.Wallet{},
		&aggregate.LevelSetting{},
		&access.BlockedIP{},
		&access.AllowedIP{},
		&history.LoginAttempt{},
		&history.AdminLoginAttempt{},
		&history.LoginSuccess{},
		&history.ConnectionInfo{},
		&experience.Record{},
		&audit.Entry{},
		&attendance.Attendance{},
	)
}

func (m *Migration001Schema) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&attendance.Attendance{},
		&audit.Entry{},
		&experience.Record{},
		&history.ConnectionInfo{},
		&history.LoginSuccess{},
		&history.AdminLoginAttempt{},
		&history.LoginAttempt{},
		&access.AllowedIP{},
		&access.BlockedIP{},
		&aggregate.LevelSetting{},
		&aggregate.Wallet{},
		&aggregate.User{},
	)
}
