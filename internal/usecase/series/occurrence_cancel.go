package series

import (
	"context"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/notify"
	"github.com/salonix/salon-scheduler/internal/timezone"
)

// CancelOccurrence cancela uma única ocorrência da série. Diferente do
// cancelamento avulso, ocorrências com slot já iniciado são rejeitadas.
type CancelOccurrence struct {
	repo     domain.Repository
	notifier notify.Notifier
}

func NewCancelOccurrence(
	repo domain.Repository,
	notifier notify.Notifier,
) *CancelOccurrence {
	return &CancelOccurrence{
		repo:     repo,
		notifier: notifier,
	}
}

func (uc *CancelOccurrence) Execute(
	ctx context.Context,
	tenantID uint,
	actorID uint,
	seriesID uint,
	occurrenceID uint,
) (*models.Appointment, error) {

	srs, err := uc.repo.GetSeries(ctx, tenantID, seriesID)
	if err != nil {
		return nil, httperr.ErrBusiness("series_not_found")
	}

	// Escrita revela "forbidden"; leitura esconderia com 404.
	if actorID != srs.ClientID &&
		srs.Service.UserID != actorID &&
		srs.Professional.UserID != actorID {
		return nil, httperr.ErrBusiness("forbidden")
	}

	ap, err := uc.repo.GetSeriesOccurrence(ctx, seriesID, occurrenceID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if ap.TenantID != tenantID {
		return nil, httperr.ErrBusiness("forbidden")
	}

	now := timezone.Now()
	if !ap.Slot.StartTime.After(now) {
		return nil, httperr.ErrBusiness("occurrence_in_past")
	}

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
