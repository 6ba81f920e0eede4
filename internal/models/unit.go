package models

import "time"

// UnitType is the room category of a unit.
type UnitType string

const (
	UnitType1RK       UnitType = "1RK"
	UnitType1BHK      UnitType = "1BHK"
	UnitType2BHK      UnitType = "2BHK"
	UnitType3BHK      UnitType = "3BHK"
	UnitType4BHK      UnitType = "4BHK"
	UnitTypePenthouse UnitType = "PENTHOUSE"
	UnitTypeShop      UnitType = "SHOP"
	UnitTypeOffice    UnitType = "OFFICE"
)

func (t UnitType) Valid() bool {
	switch t {
	case UnitType1RK, UnitType1BHK, UnitType2BHK, UnitType3BHK, UnitType4BHK,
		UnitTypePenthouse, UnitTypeShop, UnitTypeOffice:
		return true
	}
	return false
}

// Unit is a flat, shop or office inside a building.
// AllocatedUserID is set if and only if Status is OCCUPIED.
type Unit struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	BuildingID      uint            `gorm:"index;not null" json:"buildingId"`
	Building        *Building       `json:"-"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	Type            UnitType        `gorm:"size:20;not null" json:"type"`
	Floor           int             `gorm:"not null;default:0" json:"floor"`
	Status          OccupancyStatus `gorm:"size:20;not null;default:AVAILABLE;index" json:"status"`
	AllocatedUserID *uint           `gorm:"index" json:"allocatedUserId"`
	AllocatedTo     *User           `gorm:"foreignKey:AllocatedUserID" json:"allocatedTo,omitempty"`
	Versioned
}

func (u *Unit) GetID() uint { return u.ID }

// GetUserID returns the society owner. Building.Society must be loaded.
func (u *Unit) GetUserID() uint {
	if u.Building == nil {
		return 0
	}
	return u.Building.GetUserID()
}

// GetSocietyID returns 0 unless Building is loaded.
func (u *Unit) GetSocietyID() uint {
	if u.Building == nil {
		return 0
	}
	return u.Building.SocietyID
}

// IsAllocatable reports whether a new tenant may be bound to the unit.
func (u *Unit) IsAllocatable() bool { return u.Status == StatusAvailable && u.AllocatedUserID == nil }

// Consistent reports whether the occupancy invariant holds for the row.
func (u *Unit) Consistent() bool {
	return (u.AllocatedUserID != nil) == (u.Status == StatusOccupied)
}
