package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/dtos"
	"github.com/diewo77/go-society/internal/logging"
	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/internal/policy"
	"github.com/diewo77/go-society/internal/repositories"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AllocationResult is everything one allocation committed.
type AllocationResult struct {
	Agreement    models.Agreement     `json:"agreement"`
	Unit         models.Unit          `json:"unit"`
	ParkingSlots []models.ParkingSlot `json:"parkingSlots"`
	Payments     []models.Payment     `json:"payments"`
}

// AllocationService binds tenants to units and releases them again.
type AllocationService struct {
	db         *gorm.DB
	authz      Authorizer
	maxRetries int
	now        func() time.Time
}

func NewAllocationService(db *gorm.DB, authz Authorizer, maxRetries int) *AllocationService {
	return &AllocationService{db: db, authz: authz, maxRetries: maxRetries, now: time.Now}
}

// AllocateTenant creates the agreement, occupies the unit, claims the
// parking slots and creates the initial payments in one transaction. The
// unit status is re-read under a row lock, so a unit that was taken
// concurrently fails with a unit_occupied conflict and nothing is written.
func (s *AllocationService) AllocateTenant(ctx context.Context, userID uint, req dtos.AllocationRequest) (*AllocationResult, error) {
	if v := req.Validate(); !v.Empty() {
		return nil, apperr.Validation(v)
	}
	if err := s.authz.Check(ctx, userID, gate.ActionAllocate, policy.ResourceTenant, nil); err != nil {
		return nil, err
	}

	var result *AllocationResult
	err := repositories.WithRetry(ctx, s.maxRetries, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			r, err := s.allocate(ctx, tx, userID, req)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, "allocation failed")
	}

	logging.Logger.WithFields(logrus.Fields{
		"unit_id":      result.Unit.ID,
		"tenant_id":    result.Agreement.TenantID,
		"agreement_id": result.Agreement.ID,
		"slots":        len(result.ParkingSlots),
		"payments":     len(result.Payments),
	}).Info("tenant allocated")
	return result, nil
}

func (s *AllocationService) allocate(ctx context.Context, tx *gorm.DB, userID uint, req dtos.AllocationRequest) (*AllocationResult, error) {
	var tenant models.User
	if err := tx.First(&tenant, req.Tenant.TenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tenant")
		}
		return nil, err
	}
	if !tenant.IsTenant() {
		return nil, apperr.NotFound("tenant")
	}

	unit, err := repositories.LockUnit(tx, req.Unit.UnitID)
	if err != nil {
		return nil, err
	}
	if unit.BuildingID != req.Unit.BuildingID {
		return nil, apperr.NotFound("unit")
	}
	building, err := repositories.LoadBuilding(tx, unit.BuildingID)
	if err != nil {
		return nil, err
	}
	unit.Building = building
	if err := s.authz.Check(ctx, userID, gate.ActionAllocate, policy.ResourceUnit, unit); err != nil {
		return nil, err
	}

	switch {
	case unit.Status == models.StatusOccupied || unit.AllocatedUserID != nil:
		return nil, apperr.Conflict(apperr.CodeUnitOccupied, "unit is already occupied")
	case !unit.IsAllocatable():
		return nil, apperr.Conflict(apperr.CodeUnitNotAvailable, fmt.Sprintf("unit is %s", unit.Status))
	}

	now := s.now()
	// A unit released outside ReleaseUnit may still carry an ACTIVE agreement.
	if err := closeActiveAgreements(tx, unit.ID, now); err != nil {
		return nil, err
	}
	agreement := req.Agreement.Agreement(tenant.ID, unit.ID)
	if err := tx.Create(&agreement).Error; err != nil {
		return nil, err
	}

	err = repositories.UpdateIfVersion(tx.Where("status = ?", models.StatusAvailable), &models.Unit{}, unit.ID, unit.RowVersion, map[string]any{
		"status":            models.StatusOccupied,
		"allocated_user_id": tenant.ID,
	})
	if err != nil {
		return nil, err
	}
	unit.Status = models.StatusOccupied
	unit.AllocatedUserID = &tenant.ID
	unit.RowVersion++

	slots, err := s.claimSlots(tx, unit, tenant.ID, req.ParkingSlots)
	if err != nil {
		return nil, err
	}

	payments := make([]models.Payment, 0, 3)
	for _, c := range agreement.Charges() {
		payments = append(payments, models.Payment{
			Type:        c.Type,
			Amount:      c.Amount,
			DueDate:     agreement.StartDate,
			Status:      models.PaymentPending,
			TenantID:    tenant.ID,
			UnitID:      unit.ID,
			SocietyID:   building.SocietyID,
			AgreementID: &agreement.ID,
		})
	}
	if len(payments) > 0 {
		if err := tx.Create(&payments).Error; err != nil {
			return nil, err
		}
	}

	return &AllocationResult{
		Agreement:    agreement,
		Unit:         *unit,
		ParkingSlots: slots,
		Payments:     payments,
	}, nil
}

// claimSlots binds every claimed slot to the tenant and unit. Slots are
// locked in id order.
func (s *AllocationService) claimSlots(tx *gorm.DB, unit *models.Unit, tenantID uint, claims []dtos.ParkingClaim) ([]models.ParkingSlot, error) {
	out := make([]models.ParkingSlot, 0, len(claims))
	if len(claims) == 0 {
		return out, nil
	}
	ids := make([]uint, len(claims))
	for i, c := range claims {
		ids[i] = c.SlotID
	}
	locked, err := repositories.LockParkingSlots(tx, ids...)
	if err != nil {
		return nil, err
	}

	for i, c := range claims {
		slot := locked[c.SlotID]
		field := fmt.Sprintf("parkingSlots[%d]", i)
		if slot.BuildingID != unit.BuildingID {
			return nil, apperr.Validation(map[string]string{field + ".id": "wrong_building"})
		}
		if slot.VehicleType != c.VehicleType {
			return nil, apperr.Validation(map[string]string{field + ".vehicleType": "vehicle_type_mismatch"})
		}
		if !slot.SelectableFor(c.VehicleType, tenantID) {
			return nil, apperr.Conflict(apperr.CodeSlotOccupied, fmt.Sprintf("parking slot %s is not available", slot.Name))
		}

		number := c.VehicleNumber
		var model *string
		if c.VehicleModel != "" {
			m := c.VehicleModel
			model = &m
		}
		err := repositories.UpdateIfVersion(tx, &models.ParkingSlot{}, slot.ID, slot.RowVersion, map[string]any{
			"vehicle_number": number,
			"vehicle_model":  model,
			"assigned_to_id": tenantID,
			"unit_id":        unit.ID,
			"status":         models.StatusOccupied,
		})
		if err != nil {
			return nil, err
		}
		slot.VehicleNumber = &number
		slot.VehicleModel = model
		slot.AssignedToID = &tenantID
		slot.UnitID = &unit.ID
		slot.Status = models.StatusOccupied
		slot.RowVersion++
		out = append(out, *slot)
	}
	return out, nil
}

func closeActiveAgreements(tx *gorm.DB, unitID uint, at time.Time) error {
	return tx.Model(&models.Agreement{}).
		Where("unit_id = ? AND status = ?", unitID, models.AgreementActive).
		Updates(map[string]any{"status": models.AgreementClosed, "closed_at": at}).Error
}
