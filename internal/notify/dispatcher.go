package notify

import (
	"log"

	"github.com/salonix/salon-scheduler/internal/models"
)

// Dispatcher entrega eventos aos drivers em uma goroutine própria,
// com fila limitada: notificação nunca bloqueia nem quebra a API.
type Dispatcher struct {
	drivers []Driver
	queue   chan Event
}

func NewDispatcher(drivers ...Driver) *Dispatcher {
	d := &Dispatcher{
		drivers: drivers,
		queue:   make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		for _, drv := range d.drivers {
			if err := drv.Send(ev); err != nil {
				log.Printf("notify: driver %s failed for %s: %v", drv.Name(), ev.Type, err)
			}
		}
	}
}

func (d *Dispatcher) dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos a notificação (nunca quebrar API)
		log.Println("notify: queue full, dropping event", ev.Type)
	}
}

func (d *Dispatcher) AppointmentCreated(ap *models.Appointment) {
	if ap == nil {
		return
	}
	d.dispatch(Event{Type: TypeAppointmentCreated, Appointment: *ap})
}

func (d *Dispatcher) AppointmentCancelled(ap *models.Appointment, actor *models.User) {
	if ap == nil {
		return
	}
	d.dispatch(Event{Type: TypeAppointmentCancelled, Appointment: *ap, Actor: actor})
}

func (d *Dispatcher) AppointmentReminder(ap *models.Appointment) {
	if ap == nil {
		return
	}
	d.dispatch(Event{Type: TypeAppointmentReminder, Appointment: *ap})
}
