package dtos

import (
	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/validation"
)

// VehicleInfo describes the vehicle registered against a slot.
type VehicleInfo struct {
	VehicleType   models.VehicleType `json:"vehicleType" validate:"required,oneof=CAR BIKE SCOOTER BICYCLE OTHER"`
	VehicleNumber string             `json:"vehicleNumber" validate:"required,max=32"`
	VehicleModel  string             `json:"vehicleModel,omitempty" validate:"max=100"`
}

// ReassignRequest assigns a slot to the tenant of UnitID, or releases it
// when NewAssigneeID is nil.
type ReassignRequest struct {
	SlotID        uint         `json:"slotId" validate:"required"`
	NewAssigneeID *uint        `json:"assignedToId"`
	UnitID        *uint        `json:"unitId"`
	Vehicle       *VehicleInfo `json:"vehicle,omitempty"`
}

func (r ReassignRequest) Releases() bool { return r.NewAssigneeID == nil }

func (r ReassignRequest) Validate() validation.Violations {
	v := validation.Struct(r)
	if r.Releases() {
		return v
	}
	if r.UnitID == nil {
		v.Add("unitId", "required")
	}
	if r.Vehicle == nil {
		v.Add("vehicle", "required")
	}
	return v
}

// SwapRequest moves the tenant holding FromSlotID onto ToSlotID. Vehicle
// details carry over unless overridden.
type SwapRequest struct {
	FromSlotID    uint    `json:"fromSlotId" validate:"required"`
	ToSlotID      uint    `json:"toSlotId" validate:"required,nefield=FromSlotID"`
	VehicleNumber *string `json:"vehicleNumber,omitempty" validate:"omitempty,max=32"`
	VehicleModel  *string `json:"vehicleModel,omitempty" validate:"omitempty,max=100"`
}

func (r SwapRequest) Validate() validation.Violations { return validation.Struct(r) }

// ParkingSlotPatch is the generic ParkingSlots.update payload. AssignedToID
// present and null releases the slot; present and set assigns it.
type ParkingSlotPatch struct {
	ID            uint                    `json:"id"`
	VehicleType   *models.VehicleType     `json:"vehicleType,omitempty"`
	VehicleNumber *string                 `json:"vehicleNumber,omitempty"`
	VehicleModel  *string                 `json:"vehicleModel,omitempty"`
	AssignedToID  Nullable[uint]          `json:"assignedToId"`
	Status        *models.OccupancyStatus `json:"status,omitempty"`
	UnitID        Nullable[uint]          `json:"unitId"`
}

// TouchesAssignment reports whether the patch assigns or releases the slot.
func (p ParkingSlotPatch) TouchesAssignment() bool { return p.AssignedToID.Set }

func (p ParkingSlotPatch) Validate() validation.Violations {
	v := make(validation.Violations)
	if p.ID == 0 {
		v.Add("id", "required")
	}
	if p.VehicleType != nil && !p.VehicleType.Valid() {
		v.Add("vehicleType", "oneof")
	}
	if p.Status != nil && !p.Status.Valid() {
		v.Add("status", "oneof")
	}
	if p.AssignedToID.Set && p.AssignedToID.Value != nil {
		if p.Status != nil && *p.Status != models.StatusOccupied {
			v.Add("status", "must_be_occupied_when_assigned")
		}
		if !p.UnitID.Set || p.UnitID.Value == nil {
			v.Add("unitId", "required")
		}
		if p.VehicleNumber == nil || *p.VehicleNumber == "" {
			v.Add("vehicleNumber", "required")
		}
	}
	if p.AssignedToID.Value == nil && p.Status != nil && *p.Status == models.StatusOccupied {
		v.Add("status", "occupied_requires_assignee")
	}
	return v
}

// Reassign converts an assignment patch into a ReassignRequest.
func (p ParkingSlotPatch) Reassign(current models.VehicleType) ReassignRequest {
	req := ReassignRequest{SlotID: p.ID, NewAssigneeID: p.AssignedToID.Value, UnitID: p.UnitID.Value}
	if req.Releases() {
		return req
	}
	info := &VehicleInfo{VehicleType: current}
	if p.VehicleType != nil {
		info.VehicleType = *p.VehicleType
	}
	if p.VehicleNumber != nil {
		info.VehicleNumber = *p.VehicleNumber
	}
	if p.VehicleModel != nil {
		info.VehicleModel = *p.VehicleModel
	}
	req.Vehicle = info
	return req
}

// TenantDetailFilter is the getTenentDetailList query.
type TenantDetailFilter struct {
	Search     string
	BuildingID uint
	Floor      *int
	Type       models.UnitType
	Page       int
	Limit      int
}

// PaymentFilter narrows ListPayments.
type PaymentFilter struct {
	Status   models.PaymentStatus
	TenantID uint
	UnitID   uint
	Page     int
	Limit    int
}
