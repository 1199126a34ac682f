package appointment

import (
	"context"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/notify"
	"github.com/salonix/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	TenantID uint
	ClientID uint

	ServiceID      uint
	ProfessionalID uint
	SlotID         uint

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	notifier notify.Notifier
}

func NewCreateAppointment(
	repo domain.Repository,
	notifier notify.Notifier,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		notifier: notifier,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	svc, err := uc.repo.GetService(ctx, in.TenantID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	pro, err := uc.repo.GetProfessional(ctx, in.TenantID, in.ProfessionalID)
	if err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	slot, err := uc.repo.GetSlot(ctx, in.TenantID, in.SlotID)
	if err != nil {
		return nil, httperr.ErrBusiness("slot_not_found")
	}

	// A ordem das validações é contrato: a primeira falha responde.
	if !slot.IsAvailable {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	if slot.ProfessionalID != in.ProfessionalID {
		return nil, httperr.ErrBusiness("professional_mismatch")
	}

	now := timezone.Now()
	if !slot.StartTime.After(now) {
		return nil, httperr.ErrBusiness("slot_in_past")
	}

	exists, err := uc.repo.HasActiveBookingOnSlot(ctx, in.ClientID, in.SlotID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, httperr.ErrBusiness("duplicate_booking")
	}

	var created models.Appointment

	err = uc.repo.InTransaction(ctx, func(tx domain.Repository) error {

		locked, err := tx.GetSlotForUpdate(ctx, in.TenantID, in.SlotID)
		if err != nil {
			return httperr.ErrBusiness("slot_not_found")
		}

		// Quem perde a corrida vê o slot já ocupado aqui.
		if !locked.IsAvailable {
			return httperr.ErrBusiness("slot_unavailable")
		}

		domain.MarkBooked(locked)
		if err := tx.SaveSlot(ctx, locked); err != nil {
			return err
		}

		ap := models.Appointment{
			TenantID:       in.TenantID,
			ClientID:       in.ClientID,
			ServiceID:      svc.ID,
			ProfessionalID: pro.ID,
			SlotID:         locked.ID,
			Notes:          in.Notes,
			Status:         string(domain.InitialStatus()),
		}

		if err := tx.CreateAppointment(ctx, &ap); err != nil {
			// Constraint única no banco é a última linha de defesa da
			// corrida pelo slot; quem esbarra nela perdeu.
			if httperr.IsUniqueViolation(err) {
				return httperr.ErrBusiness("slot_unavailable")
			}
			return err
		}

		ap.Slot = *locked
		ap.Service = *svc
		ap.Professional = *pro
		created = ap
		return nil
	})

	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		uc.notifier.AppointmentCreated(&created)
	}

	return &created, nil
}
