package models

import "time"

// ScheduleSlot é um intervalo fixo de atendimento de um profissional.
// IsAvailable e Status andam sempre juntos; a transição é feita apenas
// pelo motor de agendamentos (domain/appointment).
type ScheduleSlot struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID uint   `gorm:"index" json:"tenant_id"`
	Tenant   Tenant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ProfessionalID uint         `gorm:"index" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	IsAvailable bool   `gorm:"default:true" json:"is_available"`
	Status      string `gorm:"size:20;default:'available'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
