package repositories

import (
	"errors"
	"slices"

	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate is dropped by the sqlite dialect, where a write transaction
// already serializes writers.
var forUpdate = clause.Locking{Strength: clause.LockingStrengthUpdate}

// LockUnit reads a unit with a row lock held until tx ends.
func LockUnit(tx *gorm.DB, id uint) (*models.Unit, error) {
	var unit models.Unit
	if err := tx.Clauses(forUpdate).First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("unit")
		}
		return nil, err
	}
	return &unit, nil
}

func LockParkingSlot(tx *gorm.DB, id uint) (*models.ParkingSlot, error) {
	var slot models.ParkingSlot
	if err := tx.Clauses(forUpdate).First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("parking slot")
		}
		return nil, err
	}
	return &slot, nil
}

// LockParkingSlots locks slots in ascending id order so two requests
// touching the same pair cannot deadlock. The result is keyed by id.
func LockParkingSlots(tx *gorm.DB, ids ...uint) (map[uint]*models.ParkingSlot, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	out := make(map[uint]*models.ParkingSlot, len(sorted))
	for _, id := range sorted {
		slot, err := LockParkingSlot(tx, id)
		if err != nil {
			return nil, err
		}
		out[id] = slot
	}
	return out, nil
}

// LoadBuilding loads a building together with its society, which ownership
// policies need.
func LoadBuilding(tx *gorm.DB, id uint) (*models.Building, error) {
	var b models.Building
	if err := tx.Preload("Society").First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("building")
		}
		return nil, err
	}
	return &b, nil
}
