package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the coarse account type of a user. Capabilities per role live in
// the policy package, not here.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
	RoleStaff  Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleTenant, RoleStaff:
		return true
	}
	return false
}

// User represents an authenticated account: a society owner, a tenant or a
// member of the security staff.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name"`
	Phone     string         `gorm:"size:32;index" json:"phone,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	Role      Role           `gorm:"size:20;not null;index" json:"role"`
	// SocietyID is the society a staff member works for, or the one a tenant
	// lives in. Owners reach their societies through Society.CreatedByID.
	SocietyID *uint `gorm:"index" json:"societyId,omitempty"`

	PersonalInformation   *PersonalInformation   `gorm:"foreignKey:UserID" json:"personalInformation,omitempty"`
	AdditionalInformation *AdditionalInformation `gorm:"foreignKey:UserID" json:"additionalInformation,omitempty"`
	MemberInformation     *MemberInformation     `gorm:"foreignKey:UserID" json:"memberInformation,omitempty"`
}

// IsTenant reports whether the user can be allocated to a unit.
func (u *User) IsTenant() bool { return u.Role == RoleTenant }

// PersonalInformation is profile data captured at onboarding.
type PersonalInformation struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UserID      uint       `gorm:"uniqueIndex;not null" json:"userId"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `gorm:"size:20" json:"gender,omitempty"`
	Occupation  string     `gorm:"size:120" json:"occupation,omitempty"`
	IDProofType string     `gorm:"size:40" json:"idProofType,omitempty"`
}

type AdditionalInformation struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	CreatedAt             time.Time `json:"createdAt"`
	UserID                uint      `gorm:"uniqueIndex;not null" json:"userId"`
	EmergencyContactName  string    `gorm:"size:255" json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string    `gorm:"size:32" json:"emergencyContactPhone,omitempty"`
	PermanentAddress      string    `gorm:"size:500" json:"permanentAddress,omitempty"`
}

type MemberInformation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"userId"`
	FamilyCount  int       `gorm:"default:0" json:"familyCount"`
	HasPets      bool      `gorm:"default:false" json:"hasPets"`
	VehicleCount int       `gorm:"default:0" json:"vehicleCount"`
}
