package reminder

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/notify"
	"github.com/salonix/salon-scheduler/internal/timezone"
)

// Scheduler dispara lembretes diários para os agendamentos do dia
// seguinte. Falhas são registradas e engolidas; o job seguinte tenta
// de novo.
type Scheduler struct {
	db       *gorm.DB
	notifier notify.Notifier
	cron     *cron.Cron
}

func New(db *gorm.DB, notifier notify.Notifier) *Scheduler {
	return &Scheduler{
		db:       db,
		notifier: notifier,
		cron:     cron.New(cron.WithLocation(timezone.Location(timezone.DefaultTimezone))),
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 9 * * *", s.RunOnce); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce envia lembretes para todos os agendamentos "scheduled" cujo
// slot começa amanhã. Exportado para o job poder ser disparado à mão.
func (s *Scheduler) RunOnce() {
	now := timezone.Now()
	from := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	var aps []models.Appointment
	if err := s.db.
		Preload("Slot").
		Preload("Service").
		Preload("Professional").
		Preload("Client").
		Joins("JOIN schedule_slots ON schedule_slots.id = appointments.slot_id").
		Where("appointments.status = ?", string(domain.StatusScheduled)).
		Where("schedule_slots.start_time >= ? AND schedule_slots.start_time < ?", from, to).
		Find(&aps).Error; err != nil {

		log.Printf("reminder: falha ao carregar agendamentos: %v", err)
		return
	}

	for i := range aps {
		s.notifier.AppointmentReminder(&aps[i])
	}

	if len(aps) > 0 {
		log.Printf("reminder: %d lembrete(s) enfileirado(s)", len(aps))
	}
}
