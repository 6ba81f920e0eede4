package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/dtos"
	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/internal/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// world is a society with one building, a second owner with their own
// building, two tenants and a staff member.
type world struct {
	db    *gorm.DB
	authz *policy.AuthGate

	owner, otherOwner, staff, t1, t2 models.User

	building, foreignBuilding  models.Building
	u1, u2, maint, foreignUnit models.Unit
	p1, p2, bike, foreignSlot  models.ParkingSlot
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Society{}, &models.Building{}, &models.Unit{},
		&models.ParkingSlot{}, &models.Agreement{}, &models.Payment{},
	))
	return db
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db := setupTestDB(t)
	w := &world{db: db, authz: policy.NewAuthGate(db, time.Minute)}

	w.owner = mustCreateUser(t, db, "owner@example.com", "Olivia Owner", models.RoleOwner, nil)
	w.otherOwner = mustCreateUser(t, db, "other@example.com", "Oscar Other", models.RoleOwner, nil)
	w.t1 = mustCreateUser(t, db, "asha@example.com", "Asha Rao", models.RoleTenant, nil)
	w.t2 = mustCreateUser(t, db, "bilal@example.com", "Bilal Khan", models.RoleTenant, nil)

	society := models.Society{Name: "Green Park", CreatedByID: w.owner.ID}
	require.NoError(t, db.Create(&society).Error)
	foreign := models.Society{Name: "Blue Hills", CreatedByID: w.otherOwner.ID}
	require.NoError(t, db.Create(&foreign).Error)
	w.staff = mustCreateUser(t, db, "guard@example.com", "Gita Guard", models.RoleStaff, &society.ID)

	w.building = models.Building{SocietyID: society.ID, Name: "Tower A", Floors: 4}
	require.NoError(t, db.Create(&w.building).Error)
	w.foreignBuilding = models.Building{SocietyID: foreign.ID, Name: "Tower Z", Floors: 2}
	require.NoError(t, db.Create(&w.foreignBuilding).Error)

	w.u1 = mustCreateUnit(t, db, w.building.ID, "A-101", 1, models.StatusAvailable)
	w.u2 = mustCreateUnit(t, db, w.building.ID, "A-102", 1, models.StatusAvailable)
	w.maint = mustCreateUnit(t, db, w.building.ID, "A-201", 2, models.StatusUnderMaintenance)
	w.foreignUnit = mustCreateUnit(t, db, w.foreignBuilding.ID, "Z-101", 1, models.StatusAvailable)

	w.p1 = mustCreateSlot(t, db, w.building.ID, "P1", models.VehicleCar)
	w.p2 = mustCreateSlot(t, db, w.building.ID, "P2", models.VehicleCar)
	w.bike = mustCreateSlot(t, db, w.building.ID, "B1", models.VehicleBike)
	w.foreignSlot = mustCreateSlot(t, db, w.foreignBuilding.ID, "Z1", models.VehicleCar)
	return w
}

func mustCreateUser(t *testing.T, db *gorm.DB, email, name string, role models.Role, societyID *uint) models.User {
	t.Helper()
	u := models.User{Email: email, Name: name, Password: "x", Role: role, SocietyID: societyID}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func mustCreateUnit(t *testing.T, db *gorm.DB, buildingID uint, name string, floor int, status models.OccupancyStatus) models.Unit {
	t.Helper()
	u := models.Unit{BuildingID: buildingID, Name: name, Type: models.UnitType2BHK, Floor: floor, Status: status}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func mustCreateSlot(t *testing.T, db *gorm.DB, buildingID uint, name string, vt models.VehicleType) models.ParkingSlot {
	t.Helper()
	s := models.ParkingSlot{BuildingID: buildingID, Name: name, VehicleType: vt, Status: models.StatusAvailable}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func (w *world) allocation() *AllocationService { return NewAllocationService(w.db, w.authz, 3) }
func (w *world) parking() *ParkingService       { return NewParkingService(w.db, w.authz, 3) }

// rentRequest is a plain rent allocation: rent 15000, deposit 30000 from
// 2024-01-01, no parking.
func rentRequest(tenant models.User, unit models.Unit, claims ...dtos.ParkingClaim) dtos.AllocationRequest {
	rent := decimal.NewFromInt(15000)
	deposit := decimal.NewFromInt(30000)
	if claims == nil {
		claims = []dtos.ParkingClaim{}
	}
	return dtos.AllocationRequest{
		Tenant: &dtos.TenantStep{TenantID: tenant.ID},
		Unit:   &dtos.UnitStep{BuildingID: unit.BuildingID, UnitID: unit.ID},
		Agreement: &dtos.AgreementStep{
			AgreementType: models.AgreementRent,
			StartDate:     dtos.NewDate(2024, 1, 1),
			MonthlyRent:   &rent,
			DepositAmount: &deposit,
		},
		ParkingSlots: claims,
	}
}

func carClaim(slot models.ParkingSlot, number string) dtos.ParkingClaim {
	return dtos.ParkingClaim{SlotID: slot.ID, VehicleType: models.VehicleCar, VehicleNumber: number}
}

func mustReloadUnit(t *testing.T, db *gorm.DB, id uint) models.Unit {
	t.Helper()
	var u models.Unit
	require.NoError(t, db.First(&u, id).Error)
	return u
}

func mustReloadSlot(t *testing.T, db *gorm.DB, id uint) models.ParkingSlot {
	t.Helper()
	var s models.ParkingSlot
	require.NoError(t, db.First(&s, id).Error)
	return s
}

func count(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

// assertConsistent checks the occupancy invariant on every unit and slot.
func assertConsistent(t *testing.T, db *gorm.DB) {
	t.Helper()
	var units []models.Unit
	require.NoError(t, db.Find(&units).Error)
	for _, u := range units {
		assert.True(t, u.Consistent(), "unit %s: status %s allocated %v", u.Name, u.Status, u.AllocatedUserID)
	}
	var slots []models.ParkingSlot
	require.NoError(t, db.Find(&slots).Error)
	for _, s := range slots {
		assert.True(t, s.Consistent(), "slot %s: status %s assigned %v", s.Name, s.Status, s.AssignedToID)
	}
}

func requireKind(t *testing.T, err error, kind apperr.Kind, code string) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %T: %v", err, err)
	assert.Equal(t, kind, e.Kind)
	if code != "" {
		assert.Equal(t, code, e.Code)
	}
	return e
}
