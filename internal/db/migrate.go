package db

import (
	"fmt"

	"github.com/diewo77/go-society/internal/models"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.PersonalInformation{},
		&models.AdditionalInformation{},
		&models.MemberInformation{},
		&models.Society{},
		&models.Building{},
		&models.Unit{},
		&models.ParkingSlot{},
		&models.Agreement{},
		&models.Payment{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
