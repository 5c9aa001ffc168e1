package migrations

import (
	"gorm.io/gorm"

	"github.com/kei-test/mega/internal/domain/member/aggregate"
)

// Migration002SeedLevels seeds the default level thresholds. Level 1 starts
// at zero; each level costs progressively more cumulative experience.
type Migration002SeedLevels struct{}

func (m *Migration002SeedLevels) Version() string     { return "002" }
func (m *Migration002SeedLevels) Description() string { return "seed level thresholds" }

func (m *Migration002SeedLevels) Up(db *gorm.DB) error {
	thresholds := []aggregate.LevelSetting{
		{Level: 1, MinExp: 0},
		{Level: 2, MinExp: 100},
		{Level: 3, MinExp: 300},
		{Level: 4, MinExp: 700},
		{Level: 5, MinExp: 1_500},
		{Level: 6, MinExp: 3_000},
		{Level: 7, MinExp: 6_000},
		{Level: 8, MinExp: 12_000},
		{Level: 9, MinExp: 25_000},
		{Level: 10, MinExp: 50_000},
	}
	for i := range thresholds {
		if err := db.Where("level = ?", thresholds[i].Level).
			FirstOrCreate(&thresholds[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration002SeedLevels) Down(db *gorm.DB) error {
	return db.Where("level <= ?", 10).Delete(&aggregate.LevelSetting{}).Error
}
