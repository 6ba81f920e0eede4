package repositories

import (
	"github.com/diewo77/go-society/internal/apperr"
	"gorm.io/gorm"
)

// UpdateIfVersion applies updates to the row with the given id only while
// its row_version still equals expected, bumping the version in the same
// statement. model selects the table, e.g. &models.Unit{}.
func UpdateIfVersion(tx *gorm.DB, model any, id uint, expected int64, updates map[string]any) error {
	values := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		values[k] = v
	}
	values["row_version"] = gorm.Expr("row_version + 1")

	res := tx.Model(model).Where("id = ? AND row_version = ?", id, expected).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrRowVersionConflict
	}
	return nil
}
