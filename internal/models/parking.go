package models

import (
	"strings"
	"time"
)

// VehicleType is the kind of vehicle a parking slot is built for.
type VehicleType string

const (
	VehicleCar     VehicleType = "CAR"
	VehicleBike    VehicleType = "BIKE"
	VehicleScooter VehicleType = "SCOOTER"
	VehicleBicycle VehicleType = "BICYCLE"
	VehicleOther   VehicleType = "OTHER"
)

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleCar, VehicleBike, VehicleScooter, VehicleBicycle, VehicleOther:
		return true
	}
	return false
}

func (v *VehicleType) UnmarshalText(b []byte) error {
	*v, _ = ParseVehicleType(string(b))
	return nil
}

// ParseVehicleType normalizes user input such as "car" to VehicleCar.
func ParseVehicleType(s string) (VehicleType, bool) {
	v := VehicleType(strings.ToUpper(strings.TrimSpace(s)))
	return v, v.Valid()
}

// ParkingSlot belongs to a building. AssignedToID is set if and only if
// Status is OCCUPIED; UnitID records which unit the slot is tied to while
// assigned.
type ParkingSlot struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	BuildingID    uint            `gorm:"index;not null" json:"buildingId"`
	Building      *Building       `json:"-"`
	UnitID        *uint           `gorm:"index" json:"unitId"`
	Name          string          `gorm:"size:50;not null" json:"name"`
	VehicleType   VehicleType     `gorm:"size:20;not null" json:"vehicleType"`
	Status        OccupancyStatus `gorm:"size:20;not null;default:AVAILABLE;index" json:"status"`
	AssignedToID  *uint           `gorm:"index" json:"assignedToId"`
	AssignedTo    *User           `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	VehicleNumber *string         `gorm:"size:32" json:"vehicleNumber"`
	VehicleModel  *string         `gorm:"size:100" json:"vehicleModel"`
	Versioned
}

func (p *ParkingSlot) GetID() uint { return p.ID }

// GetUserID returns the society owner. Building.Society must be loaded.
func (p *ParkingSlot) GetUserID() uint {
	if p.Building == nil {
		return 0
	}
	return p.Building.GetUserID()
}

func (p *ParkingSlot) GetSocietyID() uint {
	if p.Building == nil {
		return 0
	}
	return p.Building.SocietyID
}

// HeldBy reports whether the slot is currently assigned to tenantID.
func (p *ParkingSlot) HeldBy(tenantID uint) bool {
	return p.AssignedToID != nil && *p.AssignedToID == tenantID
}

// SelectableFor is the wizard filter: the slot fits the vehicle type and is
// either free or already held by the same tenant.
func (p *ParkingSlot) SelectableFor(vt VehicleType, tenantID uint) bool {
	if p.VehicleType != vt {
		return false
	}
	return p.Status == StatusAvailable || p.HeldBy(tenantID)
}

func (p *ParkingSlot) Consistent() bool {
	return (p.AssignedToID != nil) == (p.Status == StatusOccupied)
}
