package notify

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonix/salon-scheduler/internal/models"
)

// LogDriver persiste cada notificação como NotificationLog (canal
// in-app), um registro por destinatário.
type LogDriver struct {
	db *gorm.DB
}

func NewLogDriver(db *gorm.DB) *LogDriver {
	return &LogDriver{db: db}
}

func (d *LogDriver) Name() string { return "in_app" }

func (d *LogDriver) Send(ev Event) error {
	ap := ev.Appointment

	meta, _ := json.Marshal(map[string]any{
		"appointment_id": ap.ID,
		"slot_id":        ap.SlotID,
		"service_id":     ap.ServiceID,
	})

	recipients := d.recipients(ev)

	for _, userID := range recipients {
		row := models.NotificationLog{
			PublicID: uuid.NewString(),
			TenantID: ap.TenantID,
			UserID:   userID,
			Channel:  d.Name(),
			Type:     ev.Type,
			Title:    title(ev),
			Message:  message(ev),
			Metadata: string(meta),
			Status:   "sent",
		}
		if err := d.db.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// Cancelamento notifica cliente e dono do salão; os demais eventos
// só o cliente.
func (d *LogDriver) recipients(ev Event) []uint {
	ap := ev.Appointment
	recipients := []uint{ap.ClientID}

	if ev.Type == TypeAppointmentCancelled && ap.Service.UserID != 0 && ap.Service.UserID != ap.ClientID {
		recipients = append(recipients, ap.Service.UserID)
	}
	return recipients
}

func title(ev Event) string {
	switch ev.Type {
	case TypeAppointmentCreated:
		return "Agendamento confirmado"
	case TypeAppointmentCancelled:
		return "Agendamento cancelado"
	case TypeAppointmentReminder:
		return "Lembrete de agendamento"
	}
	return ev.Type
}

func message(ev Event) string {
	ap := ev.Appointment

	when := ap.Slot.StartTime.Format("02/01/2006 15:04")

	switch ev.Type {
	case TypeAppointmentCreated:
		return fmt.Sprintf("%s em %s.", ap.Service.Name, when)
	case TypeAppointmentCancelled:
		return fmt.Sprintf("%s em %s foi cancelado.", ap.Service.Name, when)
	case TypeAppointmentReminder:
		return fmt.Sprintf("Lembrete: %s amanhã às %s.", ap.Service.Name, ap.Slot.StartTime.Format("15:04"))
	}
	return ""
}
