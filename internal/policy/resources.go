package policy

import (
	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/internal/models"
)

// Resource types checked through the gate.
const (
	ResourceBuilding    = "building"
	ResourceUnit        = "unit"
	ResourceParkingSlot = "parking_slot"
	ResourceTenant      = "tenant"
	ResourcePayment     = "payment"
)

func perm(resource string, action gate.Action) gate.Permission {
	return gate.NewPermission(resource, action)
}

// roleProfiles maps each role to its fixed capability set. Owners manage
// everything inside their societies, staff read the dashboards of the
// society they work for, tenants get nothing from this API.
var roleProfiles = map[models.Role]gate.Profile{
	models.RoleOwner: gate.NewStaticProfile("owner",
		perm(ResourceBuilding, gate.WildcardAll),
		perm(ResourceUnit, gate.WildcardAll),
		perm(ResourceParkingSlot, gate.WildcardAll),
		perm(ResourceTenant, gate.WildcardAll),
		perm(ResourcePayment, gate.WildcardAll),
	),
	models.RoleStaff: gate.NewStaticProfile("staff",
		perm(ResourceBuilding, gate.ActionList),
		perm(ResourceUnit, gate.ActionView),
		perm(ResourceParkingSlot, gate.ActionList),
		perm(ResourcePayment, gate.ActionList),
	),
	models.RoleTenant: gate.NewStaticProfile("tenant"),
}

// ProfileForRole returns nil for an unknown role.
func ProfileForRole(role models.Role) gate.Profile {
	return roleProfiles[role]
}
