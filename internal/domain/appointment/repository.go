package appointment

import (
	"context"
	"time"

	"github.com/salonix/salon-scheduler/internal/models"
)

type Repository interface {
	// InTransaction executa fn dentro de uma transação; o Repository
	// recebido por fn opera sobre a mesma transação.
	InTransaction(ctx context.Context, fn func(Repository) error) error

	// -------- Catalog --------
	GetService(
		ctx context.Context,
		tenantID uint,
		serviceID uint,
	) (*models.Service, error)

	GetProfessional(
		ctx context.Context,
		tenantID uint,
		professionalID uint,
	) (*models.Professional, error)

	// -------- Users --------
	GetUser(
		ctx context.Context,
		userID uint,
	) (*models.User, error)

	GetOrCreateGuest(
		ctx context.Context,
		tenantID uint,
		name string,
		phone string,
		email string,
	) (*models.User, error)

	// -------- Slots --------
	GetSlot(
		ctx context.Context,
		tenantID uint,
		slotID uint,
	) (*models.ScheduleSlot, error)

	// GetSlotForUpdate trava a linha do slot (FOR UPDATE) quando o
	// dialeto suporta; deve ser chamado dentro de InTransaction.
	GetSlotForUpdate(
		ctx context.Context,
		tenantID uint,
		slotID uint,
	) (*models.ScheduleSlot, error)

	ListSlots(
		ctx context.Context,
		tenantID uint,
		slotIDs []uint,
	) ([]models.ScheduleSlot, error)

	ListSlotsForUpdate(
		ctx context.Context,
		tenantID uint,
		slotIDs []uint,
	) ([]models.ScheduleSlot, error)

	SaveSlot(
		ctx context.Context,
		slot *models.ScheduleSlot,
	) error

	// -------- Appointments --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	SaveAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// GetAppointment carrega slot, serviço e profissional.
	GetAppointment(
		ctx context.Context,
		tenantID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	HasActiveBookingOnSlot(
		ctx context.Context,
		clientID uint,
		slotID uint,
	) (bool, error)

	// -------- Series --------
	CreateSeries(
		ctx context.Context,
		series *models.AppointmentSeries,
	) error

	SaveSeries(
		ctx context.Context,
		series *models.AppointmentSeries,
	) error

	GetSeries(
		ctx context.Context,
		tenantID uint,
		seriesID uint,
	) (*models.AppointmentSeries, error)

	// ListSeriesAppointmentsFrom retorna os agendamentos da série cujo
	// slot começa estritamente depois de `from`, ordenados por início.
	ListSeriesAppointmentsFrom(
		ctx context.Context,
		seriesID uint,
		from time.Time,
	) ([]models.Appointment, error)

	GetSeriesOccurrence(
		ctx context.Context,
		seriesID uint,
		appointmentID uint,
	) (*models.Appointment, error)
}
