package models

import "time"

// Table statuses. A table cycles Available -> Pending -> Occupied -> Available;
// no other value is ever stored.
const (
	TableAvailable = "Available"
	TablePending   = "Pending"
	TableOccupied  = "Occupied"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber int       `gorm:"uniqueIndex;not null" json:"tableNumber"`
	Status      string    `gorm:"type:varchar(20);not null;default:'Available'" json:"tableStatus"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}

// ValidTableStatus reports whether s is one of the three known statuses.
func ValidTableStatus(s string) bool {
	return s == TableAvailable || s == TablePending || s == TableOccupied
}
