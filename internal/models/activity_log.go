package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is append-only: rows are never updated or deleted, and they
// survive soft deletion of the user they reference. No gorm.Model here so
// there is no UpdatedAt or DeletedAt to suggest otherwise.
type ActivityLog struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time

	TeamID    uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Action    string `gorm:"not null"`
	IPAddress string `gorm:"size:45"`
	Metadata  datatypes.JSON
}
