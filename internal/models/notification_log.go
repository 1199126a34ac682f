package models

import "time"

type NotificationLog struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PublicID string `gorm:"size:36;uniqueIndex" json:"public_id"`

	TenantID uint `gorm:"index" json:"tenant_id"`
	UserID   uint `gorm:"index" json:"user_id"`

	Channel string `gorm:"size:20" json:"channel"`
	Type    string `gorm:"size:50" json:"type"`
	Title   string `gorm:"size:200" json:"title"`
	Message string `gorm:"size:1000" json:"message"`

	Metadata string `gorm:"type:text" json:"metadata"`
	Status   string `gorm:"size:20;default:'sent'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}
