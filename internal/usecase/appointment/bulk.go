package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/notify"
	"github.com/salonix/salon-scheduler/internal/timezone"
	"github.com/salonix/salon-scheduler/internal/validators"
)

const MaxBulkAppointments = 10

// ======================================================
// INPUT
// ======================================================

type BulkItem struct {
	SlotID uint
	Notes  string
}

// GuestContact identifica o cliente quando a requisição não é
// autenticada (nome + telefone ou e-mail).
type GuestContact struct {
	Name  string
	Phone string
	Email string
}

// SeriesOptions, quando presente, cria a série junto com o lote e
// carimba series_id em cada agendamento (mesma transação).
type SeriesOptions struct {
	Notes          string
	RecurrenceRule *string
	Count          *int
	Until          *time.Time
}

type BulkCreateInput struct {
	TenantID uint

	// ClientID == 0 indica convidado; Guest passa a ser obrigatório.
	ClientID uint
	Guest    *GuestContact

	ServiceID      uint
	ProfessionalID uint

	Items []BulkItem
	Notes string

	Series *SeriesOptions
}

// ======================================================
// RESULT
// ======================================================

type BulkCreateResult struct {
	SeriesID *uint

	Appointments   []models.Appointment
	AppointmentIDs []uint
	Count          int
	TotalValue     float64

	ServiceName      string
	ProfessionalName string
}

// ======================================================
// USE CASE
// ======================================================

type BulkCreateAppointments struct {
	repo     domain.Repository
	notifier notify.Notifier
}

func NewBulkCreateAppointments(
	repo domain.Repository,
	notifier notify.Notifier,
) *BulkCreateAppointments {
	return &BulkCreateAppointments{
		repo:     repo,
		notifier: notifier,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BulkCreateAppointments) Execute(
	ctx context.Context,
	in BulkCreateInput,
) (*BulkCreateResult, error) {

	// ------------------------------------------------------
	// Fase 1: validação — acumula TODAS as violações antes de
	// rejeitar; nada é mutado aqui.
	// ------------------------------------------------------
	v := httperr.Violations{}

	if len(in.Items) == 0 {
		v.Add("appointments", "informe ao menos um agendamento")
	}
	if len(in.Items) > MaxBulkAppointments {
		v.Add("appointments", fmt.Sprintf("máximo de %d agendamentos por requisição", MaxBulkAppointments))
	}

	slotIDs := make([]uint, 0, len(in.Items))
	seen := map[uint]bool{}
	for _, item := range in.Items {
		if seen[item.SlotID] {
			v.Add("appointments", fmt.Sprintf("slot %d duplicado na requisição", item.SlotID))
			continue
		}
		seen[item.SlotID] = true
		slotIDs = append(slotIDs, item.SlotID)
	}

	if in.ClientID == 0 {
		uc.validateGuest(in.Guest, v)
	}

	svc, err := uc.repo.GetService(ctx, in.TenantID, in.ServiceID)
	if err != nil {
		v.Add("service_id", "serviço não encontrado")
	}

	pro, err := uc.repo.GetProfessional(ctx, in.TenantID, in.ProfessionalID)
	if err != nil {
		v.Add("professional_id", "profissional não encontrado")
	}

	if len(slotIDs) > 0 {
		uc.validateSlots(ctx, in, slotIDs, v)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	// ------------------------------------------------------
	// Fase 2: mutação — tudo ou nada.
	// ------------------------------------------------------
	result := &BulkCreateResult{
		ServiceName:      svc.Name,
		ProfessionalName: pro.Name,
	}

	err = uc.repo.InTransaction(ctx, func(tx domain.Repository) error {

		clientID := in.ClientID
		if clientID == 0 {
			guest, err := tx.GetOrCreateGuest(
				ctx,
				in.TenantID,
				in.Guest.Name,
				in.Guest.Phone,
				in.Guest.Email,
			)
			if err != nil {
				return err
			}
			clientID = guest.ID
		}

		var seriesID *uint
		if in.Series != nil {
			series := models.AppointmentSeries{
				TenantID:       in.TenantID,
				ClientID:       clientID,
				ServiceID:      svc.ID,
				ProfessionalID: pro.ID,
				Notes:          in.Series.Notes,
				RecurrenceRule: in.Series.RecurrenceRule,
				Count:          in.Series.Count,
				Until:          in.Series.Until,
			}
			if err := tx.CreateSeries(ctx, &series); err != nil {
				return err
			}
			seriesID = &series.ID
		}

		slots, err := tx.ListSlotsForUpdate(ctx, in.TenantID, slotIDs)
		if err != nil {
			return err
		}

		byID := make(map[uint]*models.ScheduleSlot, len(slots))
		for i := range slots {
			byID[slots[i].ID] = &slots[i]
		}

		for _, item := range in.Items {
			slot, ok := byID[item.SlotID]
			if !ok {
				return httperr.ErrBusiness("slot_not_found")
			}
			// Revalidado sob lock: perdedor de corrida cai aqui e a
			// transação inteira desfaz.
			if !slot.IsAvailable {
				return httperr.ViolationsError{Fields: httperr.Violations{
					"appointments": {fmt.Sprintf("slot %d não está mais disponível", slot.ID)},
				}}
			}

			domain.MarkBooked(slot)
			if err := tx.SaveSlot(ctx, slot); err != nil {
				return err
			}

			notes := item.Notes
			if notes == "" {
				notes = in.Notes
			}

			ap := models.Appointment{
				TenantID:       in.TenantID,
				ClientID:       clientID,
				ServiceID:      svc.ID,
				ProfessionalID: pro.ID,
				SlotID:         slot.ID,
				Notes:          notes,
				Status:         string(domain.InitialStatus()),
				SeriesID:       seriesID,
			}
			if err := tx.CreateAppointment(ctx, &ap); err != nil {
				if httperr.IsUniqueViolation(err) {
					return httperr.ViolationsError{Fields: httperr.Violations{
						"appointments": {fmt.Sprintf("slot %d não está mais disponível", slot.ID)},
					}}
				}
				return err
			}

			ap.Slot = *slot
			ap.Service = *svc
			ap.Professional = *pro
			result.Appointments = append(result.Appointments, ap)
			result.AppointmentIDs = append(result.AppointmentIDs, ap.ID)
		}

		result.SeriesID = seriesID
		return nil
	})

	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		for i := range result.Appointments {
			uc.notifier.AppointmentCreated(&result.Appointments[i])
		}
	}

	result.Count = len(result.Appointments)
	result.TotalValue = svc.PriceEUR * float64(result.Count)
	return result, nil
}

// ======================================================
// VALIDATION HELPERS
// ======================================================

func (uc *BulkCreateAppointments) validateGuest(guest *GuestContact, v httperr.Violations) {
	if guest == nil {
		v.Add("guest", "dados de contato são obrigatórios para convidados")
		return
	}

	if guest.Name == "" {
		v.Add("guest.name", "nome é obrigatório")
	}
	if guest.Phone == "" && guest.Email == "" {
		v.Add("guest", "telefone ou e-mail é obrigatório")
	}
	if guest.Phone != "" && !validators.IsPhoneValid(guest.Phone) {
		v.Add("guest.phone", "telefone inválido; use formato português (+351...)")
	}
}

func (uc *BulkCreateAppointments) validateSlots(
	ctx context.Context,
	in BulkCreateInput,
	slotIDs []uint,
	v httperr.Violations,
) {
	slots, err := uc.repo.ListSlots(ctx, in.TenantID, slotIDs)
	if err != nil {
		v.Add("appointments", "falha ao carregar slots")
		return
	}

	byID := make(map[uint]models.ScheduleSlot, len(slots))
	for _, s := range slots {
		byID[s.ID] = s
	}

	var missing, unavailable, mismatched, past []uint
	now := timezone.Now()

	for _, id := range slotIDs {
		slot, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if !slot.IsAvailable {
			unavailable = append(unavailable, id)
		}
		if slot.ProfessionalID != in.ProfessionalID {
			mismatched = append(mismatched, id)
		}
		if !slot.StartTime.After(now) {
			past = append(past, id)
		}
	}

	if len(missing) > 0 {
		v.Add("appointments", fmt.Sprintf("slots não encontrados: %v", missing))
	}
	if len(unavailable) > 0 {
		v.Add("appointments", fmt.Sprintf("slots indisponíveis: %v", unavailable))
	}
	if len(mismatched) > 0 {
		v.Add("appointments", fmt.Sprintf("slots de outro profissional: %v", mismatched))
	}
	if len(past) > 0 {
		v.Add("appointments", fmt.Sprintf("slots no passado: %v", past))
	}
}
