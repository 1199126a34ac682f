package models

import "time"

type Tenant struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	PlanTier string `gorm:"size:20;default:'basic'" json:"plan_tier"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Timezone string `gorm:"size:50" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
