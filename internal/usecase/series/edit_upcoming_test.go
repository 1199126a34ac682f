package series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainap "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/timezone"
)

func strptr(s string) *string { return &s }

func TestEditUpcomingNothingToUpdate(t *testing.T) {
	f := newFixture(t)
	res := f.newSeries(t, 24*time.Hour)

	uc := NewEditUpcoming(f.repo)

	_, err := uc.Execute(context.Background(), EditUpcomingInput{
		TenantID: f.tenant.ID,
		ActorID:  f.client.ID,
		SeriesID: *res.SeriesID,
	})
	assert.True(t, httperr.IsBusiness(err, "nothing_to_update"))
}

func TestEditUpcomingAppliesNotes(t *testing.T) {
	f := newFixture(t)
	res := f.newSeries(t, 24*time.Hour, 48*time.Hour)

	uc := NewEditUpcoming(f.repo)

	out, err := uc.Execute(context.Background(), EditUpcomingInput{
		TenantID: f.tenant.ID,
		ActorID:  f.client.ID,
		SeriesID: *res.SeriesID,
		Notes:    strptr("trazer referência"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.AffectedCount)

	for _, ap := range res.Appointments {
		assert.Equal(t, "trazer referência", f.reloadAppointment(t, ap.ID).Notes)
	}

	var srs models.AppointmentSeries
	require.NoError(t, f.db.First(&srs, *res.SeriesID).Error)
	assert.Equal(t, "trazer referência", srs.Notes)
}

func TestEditUpcomingCountMismatch(t *testing.T) {
	f := newFixture(t)
	res := f.newSeries(t, 24*time.Hour, 48*time.Hour)

	replacement := f.slot(t, 72*time.Hour)

	uc := NewEditUpcoming(f.repo)

	// Dois futuros, um slot só: pareamento impossível.
	_, err := uc.Execute(context.Background(), EditUpcomingInput{
		TenantID: f.tenant.ID,
		ActorID:  f.client.ID,
		SeriesID: *res.SeriesID,
		SlotIDs:  []uint{replacement.ID},
	})
	ve, ok := httperr.AsViolations(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "slot_ids")
	assert.Contains(t, ve.Fields["slot_ids"][0], "esperado 2, recebido 1")

	// Nada mudou.
	for _, ap := range res.Appointments {
		assert.Equal(t, ap.SlotID, f.reloadAppointment(t, ap.ID).SlotID)
	}
	assert.True(t, f.reloadSlot(t, replacement.ID).IsAvailable)
}

func TestEditUpcomingSwapsSlotsInOrder(t *testing.T) {
	f := newFixture(t)
	res := f.newSeries(t, 24*time.Hour, 48*time.Hour)

	r1 := f.slot(t, 30*time.Hour)
	r2 := f.slot(t, 54*time.Hour)

	uc := NewEditUpcoming(f.repo)

	out, err := uc.Execute(context.Background(), EditUpcomingInput{
		TenantID: f.tenant.ID,
		ActorID:  f.client.ID,
		SeriesID: *res.SeriesID,
		SlotIDs:  []uint{r1.ID, r2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.AffectedCount)

	// Pareados por posição: primeiro futuro -> r1, segundo -> r2.
	first := f.reloadAppointment(t, res.Appointments[0].ID)
	second := f.reloadAppointment(t, res.Appointments[1].ID)
	assert.Equal(t, r1.ID, first.SlotID)
	assert.Equal(t, r2.ID, second.SlotID)

	for _, ap := range res.Appointments {
		assert.True(t, f.reloadSlot(t, ap.SlotID).IsAvailable)
	}
	assert.False(t, f.reloadSlot(t, r1.ID).IsAvailable)
	assert.False(t, f.reloadSlot(t, r2.ID).IsAvailable)
}

func TestEditUpcomingKeepCurrentSlotIsNoop(t *testing.T) {
	f := newFixture(t)
	res := f.newSeries(t, 24*time.Hour, 48*time.Hour)

	r2 := f.slot(t, 54*time.Hour)

	uc := NewEditUpcoming(f.repo)

	// O primeiro mantém o próprio slot; só o segundo troca.
	out, err := uc.Execute(context.Background(), EditUpcomingInput{
		TenantID: f.tenant.ID,
		ActorID:  f.client.ID,
		SeriesID: *res.SeriesID,
		SlotIDs:  []uint{res.Appointments[0].SlotID, r2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.AffectedCount)

	first := f.reloadAppointment(t, res.Appointments[0].ID)
	assert.Equal(t, res.Appointments[0].SlotID, first.SlotID)
	assert.False(t, f.reloadSlot(t, first.SlotID).IsAvailable)

	second := f.reloadAppointment(t, res.Appointments[1].ID)
	assert.Equal(t, r2.ID, second.SlotID)
}

func TestEditUpcomingAtomicOnUnavailableReplacement(t *testing.T) {
	f := newFixture(t)
	res := f.newSeries(t, 24*time.Hour, 48*time.Hour)

	r1 := f.slot(t, 30*time.Hour)
	r2 := f.slot(t, 54*time.Hour)
	require.NoError(t, f.db.Model(&models.ScheduleSlot{}).
		Where("id = ?", r2.ID).
		Updates(map[string]any{"is_available": false, "status": domainap.SlotBooked}).Error)

	uc := NewEditUpcoming(f.repo)

	_, err := uc.Execute(context.Background(), EditUpcomingInput{
		TenantID: f.tenant.ID,
		ActorID:  f.client.ID,
		SeriesID: *res.SeriesID,
		SlotIDs:  []uint{r1.ID, r2.ID},
	})
	require.Error(t, err)
	_, ok := httperr.AsViolations(err)
	assert.True(t, ok)

	// Rollback completo: nem a primeira troca sobreviveu.
	first := f.reloadAppointment(t, res.Appointments[0].ID)
	assert.Equal(t, res.Appointments[0].SlotID, first.SlotID)
	assert.True(t, f.reloadSlot(t, r1.ID).IsAvailable)
	assert.False(t, f.reloadSlot(t, first.SlotID).IsAvailable)
}

func TestEditUpcomingHonorsStartFrom(t *testing.T) {
	f := newFixture(t)
	res := f.newSeries(t, 24*time.Hour, 48*time.Hour, 72*time.Hour)

	r2 := f.slot(t, 54*time.Hour)
	r3 := f.slot(t, 78*time.Hour)

	uc := NewEditUpcoming(f.repo)

	// Corte após a primeira ocorrência: o pareamento cobre só as duas
	// seguintes.
	from := timezone.Now().Add(36 * time.Hour)
	out, err := uc.Execute(context.Background(), EditUpcomingInput{
		TenantID: f.tenant.ID,
		ActorID:  f.client.ID,
		SeriesID: *res.SeriesID,
		SlotIDs:  []uint{r2.ID, r3.ID},
		From:     &from,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.AffectedCount)
	assert.Equal(t, []uint{res.Appointments[1].ID, res.Appointments[2].ID}, out.AppointmentIDs)

	// A primeira ocorrência não entrou no lote.
	first := f.reloadAppointment(t, res.Appointments[0].ID)
	assert.Equal(t, res.Appointments[0].SlotID, first.SlotID)
	assert.False(t, f.reloadSlot(t, first.SlotID).IsAvailable)

	assert.Equal(t, r2.ID, f.reloadAppointment(t, res.Appointments[1].ID).SlotID)
	assert.Equal(t, r3.ID, f.reloadAppointment(t, res.Appointments[2].ID).SlotID)
}

func TestEditUpcomingSkipsCancelledAndPast(t *testing.T) {
	f := newFixture(t)
	res := f.newSeries(t, 24*time.Hour, 48*time.Hour, 72*time.Hour)

	// Primeiro já aconteceu, segundo foi cancelado.
	f.moveSlotToPast(t, res.Appointments[0].SlotID)
	require.NoError(t, f.db.Model(&models.Appointment{}).
		Where("id = ?", res.Appointments[1].ID).
		Update("status", string(domainap.StatusCancelled)).Error)

	uc := NewEditUpcoming(f.repo)

	out, err := uc.Execute(context.Background(), EditUpcomingInput{
		TenantID: f.tenant.ID,
		ActorID:  f.client.ID,
		SeriesID: *res.SeriesID,
		Notes:    strptr("nova nota"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.AffectedCount)
	assert.Equal(t, []uint{res.Appointments[2].ID}, out.AppointmentIDs)

	assert.NotEqual(t, "nova nota", f.reloadAppointment(t, res.Appointments[0].ID).Notes)
	assert.NotEqual(t, "nova nota", f.reloadAppointment(t, res.Appointments[1].ID).Notes)
	assert.Equal(t, "nova nota", f.reloadAppointment(t, res.Appointments[2].ID).Notes)
}
