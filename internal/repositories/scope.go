package repositories

import (
	"math"

	"github.com/diewo77/go-society/internal/models"
	"gorm.io/gorm"
)

// SocietyScope is a subquery of the society ids visible to userID: the ones
// they created, plus the one they are a staff member of.
func SocietyScope(db *gorm.DB, userID uint) *gorm.DB {
	member := db.Model(&models.User{}).Select("society_id").
		Where("id = ? AND society_id IS NOT NULL", userID)
	return db.Model(&models.Society{}).Select("id").
		Where("created_by_id = ? OR id IN (?)", userID, member)
}

// Paginate normalizes page/limit and applies them. limit defaults to def
// and is capped at max.
func Paginate(page, limit, def, max int) (int, int, func(*gorm.DB) *gorm.DB) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if last := math.MaxInt32/limit + 1; page > last {
		page = last
	}
	offset := (page - 1) * limit
	return page, limit, func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}
