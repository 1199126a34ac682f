package series

import (
	"context"
	"time"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/notify"
	"github.com/salonix/salon-scheduler/internal/timezone"
)

// ======================================================
// RESULT (compartilhado pelas operações de série)
// ======================================================

type UpdateResult struct {
	SeriesID       uint
	AffectedCount  int
	AppointmentIDs []uint
}

// ======================================================
// CANCEL ALL (futuros)
// ======================================================

// CancelAllUpcoming cancela todos os agendamentos da série a partir do
// corte (start_from opcional, padrão agora). Agendamentos anteriores ao
// corte ficam intactos, mesmo ainda "scheduled": história não se desfaz.
type CancelAllUpcoming struct {
	repo     domain.Repository
	notifier notify.Notifier
}

func NewCancelAllUpcoming(
	repo domain.Repository,
	notifier notify.Notifier,
) *CancelAllUpcoming {
	return &CancelAllUpcoming{
		repo:     repo,
		notifier: notifier,
	}
}

func (uc *CancelAllUpcoming) Execute(
	ctx context.Context,
	tenantID uint,
	actorID uint,
	seriesID uint,
	from *time.Time,
) (*UpdateResult, error) {

	srs, err := loadSeriesForUser(ctx, uc.repo, tenantID, actorID, seriesID)
	if err != nil {
		return nil, err
	}

	now := timezone.Now()
	cutoff := effectiveCutoff(from, now)
	result := &UpdateResult{SeriesID: srs.ID}

	var cancelled []models.Appointment

	err = uc.repo.InTransaction(ctx, func(tx domain.Repository) error {

		upcoming, err := tx.ListSeriesAppointmentsFrom(ctx, srs.ID, cutoff)
		if err != nil {
			return err
		}

		for i := range upcoming {
			ap := &upcoming[i]

			// Já cancelados contam zero: segunda chamada é um
			// resultado válido com affected_count == 0. Concluídos e
			// pagos também não voltam atrás.
			if ap.Status != string(domain.StatusScheduled) {
				continue
			}

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

			if err := tx.SaveAppointment(ctx, ap); err != nil {
				return err
			}

			result.AppointmentIDs = append(result.AppointmentIDs, ap.ID)
			cancelled = append(cancelled, *ap)
		}

		result.AffectedCount = len(result.AppointmentIDs)
		return nil
	})

	if err != nil {
		return nil, err
	}

	if uc.notifier != nil && len(cancelled) > 0 {
		actor, _ := uc.repo.GetUser(ctx, actorID)
		for i := range cancelled {
			uc.notifier.AppointmentCancelled(&cancelled[i], actor)
		}
	}

	return result, nil
}

// effectiveCutoff nunca recua para antes de agora: um start_from no
// passado não reabre ocorrências que já aconteceram.
func effectiveCutoff(from *time.Time, now time.Time) time.Time {
	if from != nil && from.After(now) {
		return *from
	}
	return now
}

// ======================================================
// ACCESS
// ======================================================

// loadSeriesForUser esconde a existência de séries de outros usuários
// e tenants: quem não tem acesso recebe "não encontrada".
func loadSeriesForUser(
	ctx context.Context,
	repo domain.Repository,
	tenantID uint,
	userID uint,
	seriesID uint,
) (*models.AppointmentSeries, error) {

	srs, err := repo.GetSeries(ctx, tenantID, seriesID)
	if err != nil {
		return nil, httperr.ErrBusiness("series_not_found")
	}

	if userID != srs.ClientID &&
		srs.Service.UserID != userID &&
		srs.Professional.UserID != userID {
		return nil, httperr.ErrBusiness("series_not_found")
	}

	return srs, nil
}
