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

// EditAppointmentInput é o PATCH do lado do salão: troca de slot,
// notas e/ou cancelamento. Campos nil não são alterados.
type EditAppointmentInput struct {
	TenantID      uint
	ActorID       uint
	AppointmentID uint

	SlotID *uint
	Notes  *string
	Status *string
}

// ======================================================
// USE CASE
// ======================================================

type EditAppointment struct {
	repo     domain.Repository
	notifier notify.Notifier
}

func NewEditAppointment(
	repo domain.Repository,
	notifier notify.Notifier,
) *EditAppointment {
	return &EditAppointment{
		repo:     repo,
		notifier: notifier,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *EditAppointment) Execute(
	ctx context.Context,
	in EditAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.TenantID, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if !domain.OwnedBySalonUser(ap, in.ActorID) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	cancelling := in.Status != nil && *in.Status == string(domain.StatusCancelled)

	if in.Status != nil && !cancelling {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	// Trocar slot e cancelar na mesma requisição é intenção ambígua.
	if cancelling && in.SlotID != nil {
		return nil, httperr.ErrBusiness("ambiguous_edit")
	}

	// Remanejar só faz sentido com o agendamento ativo: um cancelado
	// apontando para um slot recém-reservado quebraria o invariante
	// cancelado => slot livre.
	if in.SlotID != nil && ap.Status != string(domain.StatusScheduled) {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	now := timezone.Now()

	err = uc.repo.InTransaction(ctx, func(tx domain.Repository) error {

		if cancelling {
			if err := domain.Cancel(ap, in.ActorID, now); err != nil {
				return err
			}

			slot, err := tx.GetSlotForUpdate(ctx, in.TenantID, ap.SlotID)
			if err != nil {
				return err
			}
			domain.MarkAvailable(slot)
			if err := tx.SaveSlot(ctx, slot); err != nil {
				return err
			}
			ap.Slot = *slot
		}

		if in.SlotID != nil && *in.SlotID != ap.SlotID {
			newSlot, err := tx.GetSlotForUpdate(ctx, in.TenantID, *in.SlotID)
			if err != nil {
				return httperr.ErrBusiness("slot_not_found")
			}

			if newSlot.ProfessionalID != ap.ProfessionalID {
				return httperr.ErrBusiness("professional_mismatch")
			}

			if !newSlot.IsAvailable {
				return httperr.ErrBusiness("slot_unavailable")
			}

			oldSlot, err := tx.GetSlotForUpdate(ctx, in.TenantID, ap.SlotID)
			if err != nil {
				return err
			}

			// Liberar o antigo e ocupar o novo na mesma transação:
			// aplicação parcial violaria o invariante slot/agendamento.
			domain.MarkAvailable(oldSlot)
			if err := tx.SaveSlot(ctx, oldSlot); err != nil {
				return err
			}

			domain.MarkBooked(newSlot)
			if err := tx.SaveSlot(ctx, newSlot); err != nil {
				return err
			}

			ap.SlotID = newSlot.ID
			ap.Slot = *newSlot
		}

		if in.Notes != nil {
			ap.Notes = *in.Notes
		}

		return tx.SaveAppointment(ctx, ap)
	})

	if err != nil {
		return nil, err
	}

	if cancelling && uc.notifier != nil {
		actor, _ := uc.repo.GetUser(ctx, in.ActorID)
		uc.notifier.AppointmentCancelled(ap, actor)
	}

	return ap, nil
}
