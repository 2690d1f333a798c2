package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	// Role lives on TeamMember: it is scoped to a membership, not the account.
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Relationships
	TeamMemberships []TeamMember `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	SentInvitations []Invitation `gorm:"foreignKey:InvitedByID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
