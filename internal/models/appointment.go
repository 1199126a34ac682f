package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TenantID uint   `gorm:"index" json:"tenant_id"`
	Tenant   Tenant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ClientID uint `json:"client_id"`
	Client   User `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client"`

	// Ficha opcional do cliente no salão (CRM), distinta do login.
	CustomerProfileID *uint `json:"customer_profile_id"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service"`

	ProfessionalID uint         `json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"professional"`

	SlotID uint         `gorm:"index" json:"slot_id"`
	Slot   ScheduleSlot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"slot"`

	Notes  string `gorm:"size:500" json:"notes"`
	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	CancelledByID *uint      `json:"cancelled_by_id"`
	CancelledBy   *User      `gorm:"foreignKey:CancelledByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	CancelledAt   *time.Time `json:"cancelled_at"`
	CompletedAt   *time.Time `json:"completed_at"`

	SeriesID *uint              `gorm:"index" json:"series_id"`
	Series   *AppointmentSeries `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
