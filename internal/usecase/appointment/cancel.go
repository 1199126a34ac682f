package appointment

import (
	"context"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/notify"
	"github.com/salonix/salon-scheduler/internal/timezone"
)

type CancelAppointment struct {
	repo     domain.Repository
	notifier notify.Notifier
}

func NewCancelAppointment(
	repo domain.Repository,
	notifier notify.Notifier,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		notifier: notifier,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, tenantID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if actorID != ap.ClientID && !domain.OwnedBySalonUser(ap, actorID) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	now := timezone.Now()

	err = uc.repo.InTransaction(ctx, func(tx domain.Repository) error {

		if err := domain.Cancel(ap, actorID, now); err != nil {
			return err
		}

		slot, err := tx.GetSlotForUpdate(ctx, tenantID, ap.SlotID)
		if err != nil {
			return err
		}

		domain.MarkAvailable(slot)
		if err := tx.SaveSlot(ctx, slot); err != nil {
			return err
		}
		ap.Slot = *slot

		return tx.SaveAppointment(ctx, ap)
	})

	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		actor, _ := uc.repo.GetUser(ctx, actorID)
		uc.notifier.AppointmentCancelled(ap, actor)
	}

	return ap, nil
}
