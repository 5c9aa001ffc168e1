package storage

import "gorm.io/gorm"

// paginate applies 1-based page/size windows with sane bounds.
func paginate(page, size int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if size < 1 || size > 200 {
			size = 20
		}
		return db.Offset((page - 1) * size).Limit(size)
	}
}
