package models

// Versioned carries the optimistic concurrency token for rows that several
// requests may try to flip at the same time.
type Versioned struct {
	RowVersion int64 `gorm:"not null;default:1" json:"rowVersion"`
}

// OccupancyStatus is shared by units and parking slots.
type OccupancyStatus string

const (
	StatusAvailable        OccupancyStatus = "AVAILABLE"
	StatusOccupied         OccupancyStatus = "OCCUPIED"
	StatusUnderMaintenance OccupancyStatus = "UNDER_MAINTENANCE"
	StatusNotAvailable     OccupancyStatus = "NOT_AVAILABLE"
)

func (s OccupancyStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusUnderMaintenance, StatusNotAvailable:
		return true
	}
	return false
}
