package dto

import (
	"time"

	"github.com/salonix/salon-scheduler/internal/models"
)

type SalonAppointmentDTO struct {
	ID               uint      `json:"id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
	ClientName       string    `json:"client_name"`
	ServiceName      string    `json:"service_name"`
	ProfessionalName string    `json:"professional_name"`
	Notes            string    `json:"notes"`
	SeriesID         *uint     `json:"series_id,omitempty"`
}

func NewSalonAppointmentDTO(ap *models.Appointment) SalonAppointmentDTO {
	return SalonAppointmentDTO{
		ID:               ap.ID,
		StartTime:        ap.Slot.StartTime,
		EndTime:          ap.Slot.EndTime,
		Status:           ap.Status,
		ClientName:       ap.Client.Name,
		ServiceName:      ap.Service.Name,
		ProfessionalName: ap.Professional.Name,
		Notes:            ap.Notes,
		SeriesID:         ap.SeriesID,
	}
}
