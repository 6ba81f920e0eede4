package models

import "time"

// Society is the tenant-isolation boundary: every unit, slot and payment is
// reached through the society its creator owns.
type Society struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Address     string     `gorm:"size:500" json:"address,omitempty"`
	CreatedByID uint       `gorm:"index;not null" json:"createdById"`
	Buildings   []Building `gorm:"constraint:OnDelete:CASCADE" json:"buildings,omitempty"`
}

// GetUserID implements policy.Ownable.
func (s *Society) GetUserID() uint { return s.CreatedByID }

// GetSocietyID implements policy.SocietyScoped.
func (s *Society) GetSocietyID() uint { return s.ID }

// Building belongs to a society and holds units and parking slots.
type Building struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	SocietyID    uint          `gorm:"index;not null" json:"societyId"`
	Society      *Society      `json:"-"`
	Name         string        `gorm:"size:255;not null" json:"name"`
	Floors       int           `gorm:"default:0" json:"floors"`
	Units        []Unit        `gorm:"constraint:OnDelete:CASCADE" json:"units,omitempty"`
	ParkingSlots []ParkingSlot `gorm:"constraint:OnDelete:CASCADE" json:"parkingSlots,omitempty"`
}

// GetUserID returns the owner of the building's society. The Society
// association must be loaded; otherwise 0 is returned and ownership checks
// deny.
func (b *Building) GetUserID() uint {
	if b.Society == nil {
		return 0
	}
	return b.Society.CreatedByID
}

func (b *Building) GetSocietyID() uint { return b.SocietyID }
