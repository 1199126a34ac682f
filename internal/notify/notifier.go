package notify

import "github.com/salonix/salon-scheduler/internal/models"

const (
	TypeAppointmentCreated   = "appointment_created"
	TypeAppointmentCancelled = "appointment_cancelled"
	TypeAppointmentReminder  = "appointment_reminder"
)

// Notifier é o colaborador injetado no motor de agendamentos.
// Todas as chamadas são fire-and-forget: falha de envio nunca
// afeta o resultado da operação que a disparou.
type Notifier interface {
	AppointmentCreated(ap *models.Appointment)
	AppointmentCancelled(ap *models.Appointment, actor *models.User)
	AppointmentReminder(ap *models.Appointment)
}

type Event struct {
	Type        string
	Appointment models.Appointment
	Actor       *models.User
}

// Driver é um canal concreto de entrega (log em banco, SMS...).
type Driver interface {
	Name() string
	Send(ev Event) error
}
