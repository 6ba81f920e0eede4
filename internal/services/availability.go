package services

import (
	"context"

	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/internal/policy"
	"github.com/diewo77/go-society/internal/repositories"
	"gorm.io/gorm"
)

// AvailabilityService answers the occupancy dashboards. Every read goes to
// storage; nothing is cached.
type AvailabilityService struct {
	db    *gorm.DB
	authz Authorizer
}

func NewAvailabilityService(db *gorm.DB, authz Authorizer) *AvailabilityService {
	return &AvailabilityService{db: db, authz: authz}
}

// ListBuildingUnits returns the caller's buildings with their units and the
// tenant each occupied unit is allocated to.
func (s *AvailabilityService) ListBuildingUnits(ctx context.Context, userID uint) ([]models.Building, error) {
	return s.listBuildings(ctx, userID, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order("units.id")
		}).Preload("Units.AllocatedTo")
	})
}

// ListBuildingParking returns the caller's buildings with their parking
// slots and the tenant each occupied slot is assigned to.
func (s *AvailabilityService) ListBuildingParking(ctx context.Context, userID uint) ([]models.Building, error) {
	return s.listBuildings(ctx, userID, func(q *gorm.DB) *gorm.DB {
		return q.Preload("ParkingSlots", func(db *gorm.DB) *gorm.DB {
			return db.Order("parking_slots.id")
		}).Preload("ParkingSlots.AssignedTo")
	})
}

func (s *AvailabilityService) listBuildings(ctx context.Context, userID uint, preload func(*gorm.DB) *gorm.DB) ([]models.Building, error) {
	if err := s.authz.Check(ctx, userID, gate.ActionList, policy.ResourceBuilding, nil); err != nil {
		return nil, err
	}
	societyIDs, err := visibleSocieties(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	buildings := []models.Building{}
	q := s.db.WithContext(ctx).Where("society_id IN ?", societyIDs).Order("id")
	if err := preload(q).Find(&buildings).Error; err != nil {
		return nil, apperr.Wrap(err, "failed to load buildings")
	}
	return buildings, nil
}

// SelectableParkingSlots lists the slots of a building a tenant may pick for
// a vehicle: matching vehicle type, and free or already held by the tenant.
func (s *AvailabilityService) SelectableParkingSlots(ctx context.Context, userID, buildingID uint, vehicleType models.VehicleType, tenantID uint) ([]models.ParkingSlot, error) {
	if !vehicleType.Valid() {
		return nil, apperr.Validation(map[string]string{"vehicleType": "oneof"})
	}
	building, err := repositories.LoadBuilding(s.db.WithContext(ctx), buildingID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Check(ctx, userID, gate.ActionList, policy.ResourceParkingSlot, building); err != nil {
		return nil, err
	}
	slots := []models.ParkingSlot{}
	err = s.db.WithContext(ctx).
		Where("building_id = ? AND vehicle_type = ?", building.ID, vehicleType).
		Where("status = ? OR assigned_to_id = ?", models.StatusAvailable, tenantID).
		Order("id").
		Find(&slots).Error
	if err != nil {
		return nil, apperr.Wrap(err, "failed to load parking slots")
	}
	return slots, nil
}
