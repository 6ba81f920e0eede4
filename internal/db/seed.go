package db

import (
	"fmt"

	"github.com/diewo77/go-society/auth"
	"github.com/diewo77/go-society/internal/logging"
	"github.com/diewo77/go-society/internal/models"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "society123"

type seedUser struct {
	Email string
	Name  string
	Phone string
	Role  models.Role
}

var demoTenants = []seedUser{
	{"asha.rao@society.local", "Asha Rao", "9800000001", models.RoleTenant},
	{"bilal.khan@society.local", "Bilal Khan", "9800000002", models.RoleTenant},
	{"chen.li@society.local", "Chen Li", "9800000003", models.RoleTenant},
}

// Seed creates a demo society: one owner, a staff member, three tenants and
// a building with units on every floor plus car and bike parking. Running it
// again changes nothing.
func Seed(db *gorm.DB) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		owner, err := seedAccount(tx, seedUser{"owner@society.local", "Society Owner", "9800000000", models.RoleOwner}, hash, nil)
		if err != nil {
			return err
		}

		society := models.Society{Name: "Green Park Residency", Address: "12 Lake Road", CreatedByID: owner.ID}
		if err := tx.Where(models.Society{Name: society.Name, CreatedByID: owner.ID}).
			Attrs(society).FirstOrCreate(&society).Error; err != nil {
			return fmt.Errorf("seed society: %w", err)
		}

		if _, err := seedAccount(tx, seedUser{"guard@society.local", "Gate Staff", "9800000009", models.RoleStaff}, hash, &society.ID); err != nil {
			return err
		}
		for _, t := range demoTenants {
			if _, err := seedAccount(tx, t, hash, nil); err != nil {
				return err
			}
		}

		building := models.Building{SocietyID: society.ID, Name: "Tower A", Floors: 4}
		if err := tx.Where(models.Building{SocietyID: society.ID, Name: building.Name}).
			Attrs(building).FirstOrCreate(&building).Error; err != nil {
			return fmt.Errorf("seed building: %w", err)
		}

		for floor := 1; floor <= building.Floors; floor++ {
			for n, typ := range []models.UnitType{models.UnitType2BHK, models.UnitType3BHK} {
				unit := models.Unit{
					BuildingID: building.ID,
					Name:       fmt.Sprintf("A-%d0%d", floor, n+1),
					Type:       typ,
					Floor:      floor,
					Status:     models.StatusAvailable,
				}
				if err := tx.Where(models.Unit{BuildingID: building.ID, Name: unit.Name}).
					Attrs(unit).FirstOrCreate(&unit).Error; err != nil {
					return fmt.Errorf("seed unit %s: %w", unit.Name, err)
				}
			}
		}

		slots := []models.ParkingSlot{
			{Name: "P1", VehicleType: models.VehicleCar},
			{Name: "P2", VehicleType: models.VehicleCar},
			{Name: "P3", VehicleType: models.VehicleCar},
			{Name: "P4", VehicleType: models.VehicleCar},
			{Name: "B1", VehicleType: models.VehicleBike},
			{Name: "B2", VehicleType: models.VehicleBike},
		}
		for _, slot := range slots {
			slot.BuildingID = building.ID
			slot.Status = models.StatusAvailable
			if err := tx.Where(models.ParkingSlot{BuildingID: building.ID, Name: slot.Name}).
				Attrs(slot).FirstOrCreate(&slot).Error; err != nil {
				return fmt.Errorf("seed parking slot %s: %w", slot.Name, err)
			}
		}

		logging.Logger.Infof("Demo society %q ready (owner %s)", society.Name, owner.Email)
		return nil
	})
}

func seedAccount(tx *gorm.DB, u seedUser, hash string, societyID *uint) (*models.User, error) {
	user := models.User{Email: u.Email, Name: u.Name, Phone: u.Phone, Password: hash, Role: u.Role, SocietyID: societyID}
	if err := tx.Where(models.User{Email: u.Email}).Attrs(user).FirstOrCreate(&user).Error; err != nil {
		return nil, fmt.Errorf("seed user %s: %w", u.Email, err)
	}
	return &user, nil
}
