package models

import "gorm.io/gorm"

type Invitation struct {
	gorm.Model

	TeamID      uint   `gorm:"not null;index"`
	Email       string `gorm:"not null;index"`
	Role        string `gorm:"not null;default:member"`
	Status      string `gorm:"not null;default:pending"`
	InvitedByID uint   `gorm:"not null"`

	// Relationships
	Team      Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	InvitedBy User `gorm:"foreignKey:InvitedByID"`
}
