package models

import "gorm.io/gorm"

type Team struct {
	gorm.Model

	Name string `gorm:"not null"`

	// Billing fields, written by checkout finalization and the
	// payment-processor webhook. At most one active subscription at a time.
	StripeCustomerID     *string `gorm:"uniqueIndex"`
	StripeSubscriptionID *string `gorm:"uniqueIndex"`
	SubscriptionStatus   string
	PlanName             string

	// Relationships
	Members      []TeamMember  `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ActivityLogs []ActivityLog `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Invitations  []Invitation  `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
