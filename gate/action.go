package gate

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"

	// ActionAllocate binds a tenant to a unit.
	ActionAllocate Action = "allocate"
	// ActionRelease frees a unit or a parking slot.
	ActionRelease Action = "release"
)

// ReadOnly reports whether the action never mutates state.
func (a Action) ReadOnly() bool {
	return a == ActionView || a == ActionList
}
