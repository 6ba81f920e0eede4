package services

import (
	"context"

	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/logging"
	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/internal/policy"
	"github.com/diewo77/go-society/internal/repositories"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReleaseResult describes a tenant removal.
type ReleaseResult struct {
	Unit            models.Unit `json:"unit"`
	ReleasedSlotIDs []uint      `json:"releasedSlotIds"`
	ClosedAgreement *uint       `json:"closedAgreementId,omitempty"`
}

// ReleaseUnit removes the tenant from an occupied unit: their slots for the
// unit are freed, the active agreement is closed and the unit becomes
// AVAILABLE. Payments are kept.
func (s *AllocationService) ReleaseUnit(ctx context.Context, userID, unitID uint) (*ReleaseResult, error) {
	if err := s.authz.Check(ctx, userID, gate.ActionRelease, policy.ResourceUnit, nil); err != nil {
		return nil, err
	}
	var result *ReleaseResult
	err := repositories.WithRetry(ctx, s.maxRetries, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			r, err := s.release(ctx, tx, userID, unitID)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, "release failed")
	}
	logging.Logger.WithFields(logrus.Fields{
		"unit_id": unitID,
		"slots":   len(result.ReleasedSlotIDs),
	}).Info("unit released")
	return result, nil
}

func (s *AllocationService) release(ctx context.Context, tx *gorm.DB, userID, unitID uint) (*ReleaseResult, error) {
	unit, err := repositories.LockUnit(tx, unitID)
	if err != nil {
		return nil, err
	}
	building, err := repositories.LoadBuilding(tx, unit.BuildingID)
	if err != nil {
		return nil, err
	}
	unit.Building = building
	if err := s.authz.Check(ctx, userID, gate.ActionRelease, policy.ResourceUnit, unit); err != nil {
		return nil, err
	}
	if unit.Status != models.StatusOccupied || unit.AllocatedUserID == nil {
		return nil, apperr.Conflict(apperr.CodeConflict, "unit is not occupied")
	}
	tenantID := *unit.AllocatedUserID

	var slotIDs []uint
	err = tx.Model(&models.ParkingSlot{}).
		Where("unit_id = ? AND assigned_to_id = ?", unit.ID, tenantID).
		Order("id").
		Pluck("id", &slotIDs).Error
	if err != nil {
		return nil, err
	}
	slots, err := repositories.LockParkingSlots(tx, slotIDs...)
	if err != nil {
		return nil, err
	}
	for _, id := range slotIDs {
		if err := releaseSlot(tx, slots[id]); err != nil {
			return nil, err
		}
	}

	result := &ReleaseResult{ReleasedSlotIDs: slotIDs}
	var active models.Agreement
	res := tx.Where("unit_id = ? AND status = ?", unit.ID, models.AgreementActive).Limit(1).Find(&active)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		result.ClosedAgreement = &active.ID
	}
	if err := closeActiveAgreements(tx, unit.ID, s.now()); err != nil {
		return nil, err
	}

	err = repositories.UpdateIfVersion(tx, &models.Unit{}, unit.ID, unit.RowVersion, map[string]any{
		"status":            models.StatusAvailable,
		"allocated_user_id": nil,
	})
	if err != nil {
		return nil, err
	}
	unit.Status = models.StatusAvailable
	unit.AllocatedUserID = nil
	unit.RowVersion++
	result.Unit = *unit
	if result.ReleasedSlotIDs == nil {
		result.ReleasedSlotIDs = []uint{}
	}
	return result, nil
}
