package models

import "gorm.io/gorm"

type TeamMember struct {
	gorm.Model

	UserID uint   `gorm:"not null;uniqueIndex:idx_user_team"`
	TeamID uint   `gorm:"not null;uniqueIndex:idx_user_team"`
	Role   string `gorm:"not null"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Team Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
