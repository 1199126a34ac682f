package models

import "time"

const (
	RoleClient = "client"
	RoleSalon  = "salon"
	RoleAdmin  = "admin"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID uint   `json:"tenant_id"`
	Tenant   Tenant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	// Índice simples: convidados compartilham e-mail vazio, então a
	// unicidade de logins é garantida no registro.
	Email        string `gorm:"size:100;index" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'client'" json:"role"`

	// Convidados criados pelo fluxo de bulk booking não têm login.
	IsGuest bool `gorm:"default:false" json:"is_guest"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
