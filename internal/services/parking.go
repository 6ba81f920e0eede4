package services

import (
	"context"
	"errors"

	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/dtos"
	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/internal/policy"
	"github.com/diewo77/go-society/internal/repositories"
	"gorm.io/gorm"
)

// SwapResult holds both slots after a swap.
type SwapResult struct {
	From models.ParkingSlot `json:"from"`
	To   models.ParkingSlot `json:"to"`
}

// ParkingService assigns, releases and swaps parking slots. Every operation
// locks the slots it touches and writes them with a row_version guard.
type ParkingService struct {
	db         *gorm.DB
	authz      Authorizer
	maxRetries int
}

func NewParkingService(db *gorm.DB, authz Authorizer, maxRetries int) *ParkingService {
	return &ParkingService{db: db, authz: authz, maxRetries: maxRetries}
}

// ReassignParkingSlot assigns the slot to the tenant of req.UnitID, or
// releases it when req.NewAssigneeID is nil.
func (s *ParkingService) ReassignParkingSlot(ctx context.Context, userID uint, req dtos.ReassignRequest) (*models.ParkingSlot, error) {
	if v := req.Validate(); !v.Empty() {
		return nil, apperr.Validation(v)
	}
	if err := s.authz.Check(ctx, userID, gate.ActionUpdate, policy.ResourceParkingSlot, nil); err != nil {
		return nil, err
	}
	return s.inTx(ctx, func(tx *gorm.DB) (*models.ParkingSlot, error) {
		slot, err := s.lockSlot(ctx, tx, userID, req.SlotID, gate.ActionUpdate)
		if err != nil {
			return nil, err
		}
		return s.reassign(tx, slot, req)
	})
}

// ReleaseParkingSlot clears the slot's assignment and vehicle.
func (s *ParkingService) ReleaseParkingSlot(ctx context.Context, userID, slotID uint) (*models.ParkingSlot, error) {
	return s.ReassignParkingSlot(ctx, userID, dtos.ReassignRequest{SlotID: slotID})
}

// SwapParkingSlot moves the tenant on FromSlotID to ToSlotID in one
// transaction. The vehicle carries over unless the request overrides it.
func (s *ParkingService) SwapParkingSlot(ctx context.Context, userID uint, req dtos.SwapRequest) (*SwapResult, error) {
	if v := req.Validate(); !v.Empty() {
		return nil, apperr.Validation(v)
	}
	if err := s.authz.Check(ctx, userID, gate.ActionUpdate, policy.ResourceParkingSlot, nil); err != nil {
		return nil, err
	}
	var result *SwapResult
	err := repositories.WithRetry(ctx, s.maxRetries, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			r, err := s.swap(ctx, tx, userID, req)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, "parking swap failed")
	}
	return result, nil
}

func (s *ParkingService) swap(ctx context.Context, tx *gorm.DB, userID uint, req dtos.SwapRequest) (*SwapResult, error) {
	locked, err := repositories.LockParkingSlots(tx, req.FromSlotID, req.ToSlotID)
	if err != nil {
		return nil, err
	}
	from, to := locked[req.FromSlotID], locked[req.ToSlotID]
	if to.BuildingID != from.BuildingID {
		return nil, apperr.Validation(map[string]string{"toSlotId": "wrong_building"})
	}
	building, err := repositories.LoadBuilding(tx, from.BuildingID)
	if err != nil {
		return nil, err
	}
	from.Building, to.Building = building, building
	if err := s.authz.Check(ctx, userID, gate.ActionUpdate, policy.ResourceParkingSlot, from); err != nil {
		return nil, err
	}

	if from.AssignedToID == nil {
		return nil, apperr.Validation(map[string]string{"fromSlotId": "not_assigned"})
	}
	tenantID := *from.AssignedToID
	if to.VehicleType != from.VehicleType {
		return nil, apperr.Validation(map[string]string{"toSlotId": "vehicle_type_mismatch"})
	}
	// The target must be free, even when the tenant already holds it.
	if to.Status != models.StatusAvailable || to.AssignedToID != nil {
		return nil, apperr.Conflict(apperr.CodeSlotOccupied, "target parking slot is not available")
	}

	number, model := from.VehicleNumber, from.VehicleModel
	if req.VehicleNumber != nil {
		number = req.VehicleNumber
	}
	if req.VehicleModel != nil {
		model = req.VehicleModel
	}
	if err := releaseSlot(tx, from); err != nil {
		return nil, err
	}
	err = assignSlot(tx, to, tenantID, from.UnitID, number, model)
	if err != nil {
		return nil, err
	}

	var out SwapResult
	if err := tx.Preload("AssignedTo").First(&out.From, from.ID).Error; err != nil {
		return nil, err
	}
	if err := tx.Preload("AssignedTo").First(&out.To, to.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateParkingSlot applies a generic slot patch. Assignment changes go
// through the same path as ReassignParkingSlot; other fields may only edit a
// slot consistently with its current assignment.
func (s *ParkingService) UpdateParkingSlot(ctx context.Context, userID uint, patch dtos.ParkingSlotPatch) (*models.ParkingSlot, error) {
	if v := patch.Validate(); !v.Empty() {
		return nil, apperr.Validation(v)
	}
	if err := s.authz.Check(ctx, userID, gate.ActionUpdate, policy.ResourceParkingSlot, nil); err != nil {
		return nil, err
	}
	return s.inTx(ctx, func(tx *gorm.DB) (*models.ParkingSlot, error) {
		slot, err := s.lockSlot(ctx, tx, userID, patch.ID, gate.ActionUpdate)
		if err != nil {
			return nil, err
		}
		if patch.TouchesAssignment() {
			req := patch.Reassign(slot.VehicleType)
			if v := req.Validate(); !v.Empty() {
				return nil, apperr.Validation(v)
			}
			updated, err := s.reassign(tx, slot, req)
			if err != nil || patch.Status == nil || *patch.Status == updated.Status {
				return updated, err
			}
			// A release may park the freed slot in another free status.
			return setSlotStatus(tx, updated, *patch.Status)
		}
		return s.editSlot(tx, slot, patch)
	})
}

func (s *ParkingService) editSlot(tx *gorm.DB, slot *models.ParkingSlot, patch dtos.ParkingSlotPatch) (*models.ParkingSlot, error) {
	occupied := slot.AssignedToID != nil
	updates := map[string]any{}
	v := map[string]string{}

	if patch.UnitID.Set {
		v["unitId"] = "requires_assignment"
	}
	if patch.VehicleType != nil && *patch.VehicleType != slot.VehicleType {
		if occupied {
			v["vehicleType"] = "vehicle_type_mismatch"
		} else {
			updates["vehicle_type"] = *patch.VehicleType
		}
	}
	if patch.VehicleNumber != nil {
		switch {
		case !occupied:
			v["vehicleNumber"] = "slot_not_assigned"
		case *patch.VehicleNumber == "":
			v["vehicleNumber"] = "required"
		}
		updates["vehicle_number"] = *patch.VehicleNumber
	}
	if patch.VehicleModel != nil {
		if !occupied {
			v["vehicleModel"] = "slot_not_assigned"
		}
		var model *string
		if *patch.VehicleModel != "" {
			model = patch.VehicleModel
		}
		updates["vehicle_model"] = model
	}
	if patch.Status != nil && *patch.Status != slot.Status {
		if occupied {
			v["status"] = "release_required"
		} else {
			updates["status"] = *patch.Status
		}
	}
	if len(v) > 0 {
		return nil, apperr.Validation(v)
	}
	if len(updates) > 0 {
		if err := repositories.UpdateIfVersion(tx, &models.ParkingSlot{}, slot.ID, slot.RowVersion, updates); err != nil {
			return nil, err
		}
	}
	return reloadSlot(tx, slot.ID)
}

func (s *ParkingService) reassign(tx *gorm.DB, slot *models.ParkingSlot, req dtos.ReassignRequest) (*models.ParkingSlot, error) {
	if req.Releases() {
		if err := releaseSlot(tx, slot); err != nil {
			return nil, err
		}
		return reloadSlot(tx, slot.ID)
	}

	tenantID := *req.NewAssigneeID
	var unit models.Unit
	if err := tx.First(&unit, *req.UnitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("unit")
		}
		return nil, err
	}
	if unit.BuildingID != slot.BuildingID {
		return nil, apperr.Validation(map[string]string{"unitId": "wrong_building"})
	}
	if unit.AllocatedUserID == nil || *unit.AllocatedUserID != tenantID {
		return nil, apperr.Validation(map[string]string{"assignedToId": "not_unit_tenant"})
	}
	if req.Vehicle.VehicleType != slot.VehicleType {
		return nil, apperr.Validation(map[string]string{"vehicle.vehicleType": "vehicle_type_mismatch"})
	}
	if !slot.SelectableFor(req.Vehicle.VehicleType, tenantID) {
		return nil, apperr.Conflict(apperr.CodeSlotOccupied, "parking slot is already occupied")
	}

	number := req.Vehicle.VehicleNumber
	var model *string
	if req.Vehicle.VehicleModel != "" {
		m := req.Vehicle.VehicleModel
		model = &m
	}
	if err := assignSlot(tx, slot, tenantID, &unit.ID, &number, model); err != nil {
		return nil, err
	}
	return reloadSlot(tx, slot.ID)
}

// lockSlot locks the slot, loads its building and authorizes action on it.
func (s *ParkingService) lockSlot(ctx context.Context, tx *gorm.DB, userID, slotID uint, action gate.Action) (*models.ParkingSlot, error) {
	slot, err := repositories.LockParkingSlot(tx, slotID)
	if err != nil {
		return nil, err
	}
	building, err := repositories.LoadBuilding(tx, slot.BuildingID)
	if err != nil {
		return nil, err
	}
	slot.Building = building
	if err := s.authz.Check(ctx, userID, action, policy.ResourceParkingSlot, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *ParkingService) inTx(ctx context.Context, fn func(tx *gorm.DB) (*models.ParkingSlot, error)) (*models.ParkingSlot, error) {
	var out *models.ParkingSlot
	err := repositories.WithRetry(ctx, s.maxRetries, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			slot, err := fn(tx)
			if err != nil {
				return err
			}
			out = slot
			return nil
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, "parking slot update failed")
	}
	return out, nil
}

func assignSlot(tx *gorm.DB, slot *models.ParkingSlot, tenantID uint, unitID *uint, number, model *string) error {
	return repositories.UpdateIfVersion(tx, &models.ParkingSlot{}, slot.ID, slot.RowVersion, map[string]any{
		"assigned_to_id": tenantID,
		"unit_id":        unitID,
		"vehicle_number": number,
		"vehicle_model":  model,
		"status":         models.StatusOccupied,
	})
}

// releaseSlot frees an assigned slot. A slot that is not assigned is left
// as it is.
func releaseSlot(tx *gorm.DB, slot *models.ParkingSlot) error {
	if slot.AssignedToID == nil && slot.Status != models.StatusOccupied {
		return nil
	}
	return repositories.UpdateIfVersion(tx, &models.ParkingSlot{}, slot.ID, slot.RowVersion, map[string]any{
		"assigned_to_id": nil,
		"unit_id":        nil,
		"vehicle_number": nil,
		"vehicle_model":  nil,
		"status":         models.StatusAvailable,
	})
}

func setSlotStatus(tx *gorm.DB, slot *models.ParkingSlot, status models.OccupancyStatus) (*models.ParkingSlot, error) {
	if err := repositories.UpdateIfVersion(tx, &models.ParkingSlot{}, slot.ID, slot.RowVersion, map[string]any{"status": status}); err != nil {
		return nil, err
	}
	return reloadSlot(tx, slot.ID)
}

func reloadSlot(tx *gorm.DB, id uint) (*models.ParkingSlot, error) {
	var slot models.ParkingSlot
	if err := tx.Preload("AssignedTo").First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}
