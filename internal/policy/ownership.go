package policy

import (
	"context"

	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/internal/models"
	"gorm.io/gorm"
)

// Ownable is implemented by resources that resolve to the owner of their
// society.
type Ownable interface {
	GetUserID() uint
}

// SocietyScoped is implemented by resources that belong to one society.
type SocietyScoped interface {
	GetSocietyID() uint
}

// OwnershipPolicy allows the owner of the resource's society.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can allows nil resources, since the profile permission already gated
// list and create. Resources that are not Ownable are denied.
func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	owner := ownable.GetUserID()
	return owner != 0 && owner == userID
}

// StaffMembershipPolicy allows staff members of the resource's society.
type StaffMembershipPolicy struct {
	DB *gorm.DB
}

func NewStaffMembershipPolicy(db *gorm.DB) *StaffMembershipPolicy {
	return &StaffMembershipPolicy{DB: db}
}

func (p *StaffMembershipPolicy) Can(ctx context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	scoped, ok := resource.(SocietyScoped)
	if !ok || scoped.GetSocietyID() == 0 {
		return false
	}
	var user models.User
	err := p.DB.WithContext(ctx).Select("id", "role", "society_id").First(&user, userID).Error
	if err != nil || user.Role != models.RoleStaff || user.SocietyID == nil {
		return false
	}
	return *user.SocietyID == scoped.GetSocietyID()
}

// SocietyPolicy lets owners do anything their profile allows on their own
// society's resources and staff only read them.
func SocietyPolicy(db *gorm.DB) gate.Policy[uint] {
	return gate.Any[uint](
		NewOwnershipPolicy(),
		gate.All[uint](gate.ReadOnly[uint](), NewStaffMembershipPolicy(db)),
	)
}
