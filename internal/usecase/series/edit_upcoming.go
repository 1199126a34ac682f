package series

import (
	"context"
	"fmt"
	"time"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type EditUpcomingInput struct {
	TenantID uint
	ActorID  uint
	SeriesID uint

	Notes   *string
	SlotIDs []uint

	// Corte opcional: só ocorrências a partir daqui entram no lote
	// (padrão agora).
	From *time.Time
}

// ======================================================
// USE CASE
// ======================================================

// EditUpcoming aplica novas notas e/ou remanejamento de slots a todos
// os agendamentos não cancelados da série a partir do corte (start_from
// opcional, padrão agora), em ordem de início. Qualquer falha desfaz o
// lote inteiro.
type EditUpcoming struct {
	repo domain.Repository
}

func NewEditUpcoming(repo domain.Repository) *EditUpcoming {
	return &EditUpcoming{repo: repo}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *EditUpcoming) Execute(
	ctx context.Context,
	in EditUpcomingInput,
) (*UpdateResult, error) {

	if in.Notes == nil && len(in.SlotIDs) == 0 {
		return nil, httperr.ErrBusiness("nothing_to_update")
	}

	srs, err := loadSeriesForUser(ctx, uc.repo, in.TenantID, in.ActorID, in.SeriesID)
	if err != nil {
		return nil, err
	}

	cutoff := effectiveCutoff(in.From, timezone.Now())
	result := &UpdateResult{SeriesID: srs.ID}

	err = uc.repo.InTransaction(ctx, func(tx domain.Repository) error {

		upcoming, err := tx.ListSeriesAppointmentsFrom(ctx, srs.ID, cutoff)
		if err != nil {
			return err
		}

		affected := upcoming[:0:0]
		for _, ap := range upcoming {
			if ap.Status != string(domain.StatusCancelled) {
				affected = append(affected, ap)
			}
		}

		var newSlots map[uint]*models.ScheduleSlot
		if len(in.SlotIDs) > 0 {
			if len(in.SlotIDs) != len(affected) {
				return httperr.ViolationsError{Fields: httperr.Violations{
					"slot_ids": {fmt.Sprintf(
						"quantidade de slots não corresponde aos agendamentos futuros (esperado %d, recebido %d)",
						len(affected), len(in.SlotIDs),
					)},
				}}
			}

			newSlots, err = uc.lockReplacementSlots(ctx, tx, srs, in.SlotIDs)
			if err != nil {
				return err
			}
		}

		for i := range affected {
			ap := &affected[i]

			if in.Notes != nil {
				ap.Notes = *in.Notes
			}

			if len(in.SlotIDs) > 0 {
				desired := newSlots[in.SlotIDs[i]]

				if desired.ID != ap.SlotID {
					if !desired.IsAvailable {
						return httperr.ViolationsError{Fields: httperr.Violations{
							"slot_ids": {fmt.Sprintf("slot %d não está disponível", desired.ID)},
						}}
					}

					oldSlot, err := tx.GetSlotForUpdate(ctx, in.TenantID, ap.SlotID)
					if err != nil {
						return err
					}
					domain.MarkAvailable(oldSlot)
					if err := tx.SaveSlot(ctx, oldSlot); err != nil {
						return err
					}

					domain.MarkBooked(desired)
					if err := tx.SaveSlot(ctx, desired); err != nil {
						return err
					}

					ap.SlotID = desired.ID
					ap.Slot = *desired
				}
			}

			if err := tx.SaveAppointment(ctx, ap); err != nil {
				return err
			}

			result.AppointmentIDs = append(result.AppointmentIDs, ap.ID)
		}

		if in.Notes != nil {
			srs.Notes = *in.Notes
			if err := tx.SaveSeries(ctx, srs); err != nil {
				return err
			}
		}

		result.AffectedCount = len(result.AppointmentIDs)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// lockReplacementSlots trava e valida os slots de destino: todos devem
// existir no tenant e pertencer ao profissional da série.
func (uc *EditUpcoming) lockReplacementSlots(
	ctx context.Context,
	tx domain.Repository,
	srs *models.AppointmentSeries,
	slotIDs []uint,
) (map[uint]*models.ScheduleSlot, error) {

	slots, err := tx.ListSlotsForUpdate(ctx, srs.TenantID, slotIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.ScheduleSlot, len(slots))
	for i := range slots {
		byID[slots[i].ID] = &slots[i]
	}

	var missing, mismatched []uint
	for _, id := range slotIDs {
		slot, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if slot.ProfessionalID != srs.ProfessionalID {
			mismatched = append(mismatched, id)
		}
	}

	if len(missing) > 0 {
		return nil, httperr.ViolationsError{Fields: httperr.Violations{
			"slot_ids": {fmt.Sprintf("slots não encontrados: %v", missing)},
		}}
	}
	if len(mismatched) > 0 {
		return nil, httperr.ViolationsError{Fields: httperr.Violations{
			"slot_ids": {"todos os slots devem pertencer ao profissional da série"},
		}}
	}

	return byID, nil
}
