package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainap "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/models"
)

func (f *fixture) bulkInput(slotIDs ...uint) BulkCreateInput {
	items := make([]BulkItem, 0, len(slotIDs))
	for _, id := range slotIDs {
		items = append(items, BulkItem{SlotID: id})
	}
	return BulkCreateInput{
		TenantID:       f.tenant.ID,
		ClientID:       f.client.ID,
		ServiceID:      f.service.ID,
		ProfessionalID: f.pro.ID,
		Items:          items,
	}
}

func TestBulkCreateBooksAllSlots(t *testing.T) {
	f := newFixture(t)

	s1 := f.slot(t, 2*time.Hour)
	s2 := f.slot(t, 26*time.Hour)
	s3 := f.slot(t, 50*time.Hour)

	uc := NewBulkCreateAppointments(f.repo, nil)

	res, err := uc.Execute(context.Background(), f.bulkInput(s1.ID, s2.ID, s3.ID))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Count)
	assert.Len(t, res.AppointmentIDs, 3)
	assert.Equal(t, 45.0, res.TotalValue)
	assert.Equal(t, "Corte", res.ServiceName)
	assert.Nil(t, res.SeriesID)

	for _, id := range []uint{s1.ID, s2.ID, s3.ID} {
		got := f.reloadSlot(t, id)
		assert.False(t, got.IsAvailable)
		assert.Equal(t, domainap.SlotBooked, got.Status)
	}
}

func TestBulkCreateAcceptsExactlyTen(t *testing.T) {
	f := newFixture(t)

	ids := make([]uint, 0, MaxBulkAppointments)
	for i := 0; i < MaxBulkAppointments; i++ {
		slot := f.slot(t, time.Duration(i+1)*time.Hour)
		ids = append(ids, slot.ID)
	}

	uc := NewBulkCreateAppointments(f.repo, nil)

	// O limite é inclusivo: dez slots ainda passam.
	res, err := uc.Execute(context.Background(), f.bulkInput(ids...))
	require.NoError(t, err)

	assert.Equal(t, 10, res.Count)
	assert.Len(t, res.AppointmentIDs, 10)
	assert.Equal(t, 10*f.service.PriceEUR, res.TotalValue)

	assert.Equal(t, int64(10), f.countAppointments(t))
	for _, id := range ids {
		got := f.reloadSlot(t, id)
		assert.False(t, got.IsAvailable)
		assert.Equal(t, domainap.SlotBooked, got.Status)
	}
}

func TestBulkCreateRejectsMoreThanTen(t *testing.T) {
	f := newFixture(t)

	ids := make([]uint, 0, 11)
	for i := 0; i < 11; i++ {
		slot := f.slot(t, time.Duration(i+1)*time.Hour)
		ids = append(ids, slot.ID)
	}

	uc := NewBulkCreateAppointments(f.repo, nil)

	_, err := uc.Execute(context.Background(), f.bulkInput(ids...))
	ve, ok := httperr.AsViolations(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "appointments")

	// Nada foi mutado.
	assert.Equal(t, int64(0), f.countAppointments(t))
	for _, id := range ids {
		assert.True(t, f.reloadSlot(t, id).IsAvailable)
	}
}

func TestBulkCreateRejectsEmptyList(t *testing.T) {
	f := newFixture(t)

	uc := NewBulkCreateAppointments(f.repo, nil)

	_, err := uc.Execute(context.Background(), f.bulkInput())
	ve, ok := httperr.AsViolations(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "appointments")
}

func TestBulkCreateRejectsDuplicateSlots(t *testing.T) {
	f := newFixture(t)
	slot := f.slot(t, 2*time.Hour)

	uc := NewBulkCreateAppointments(f.repo, nil)

	_, err := uc.Execute(context.Background(), f.bulkInput(slot.ID, slot.ID))
	ve, ok := httperr.AsViolations(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "appointments")

	assert.Equal(t, int64(0), f.countAppointments(t))
}

func TestBulkCreateAccumulatesViolations(t *testing.T) {
	f := newFixture(t)

	booked := f.slot(t, 2*time.Hour)
	require.NoError(t, f.db.Model(&booked).
		Updates(map[string]any{"is_available": false, "status": domainap.SlotBooked}).Error)

	past := f.slot(t, -time.Hour)

	in := f.bulkInput(booked.ID, past.ID, 9999)
	in.ServiceID = 8888

	uc := NewBulkCreateAppointments(f.repo, nil)

	_, err := uc.Execute(context.Background(), in)
	ve, ok := httperr.AsViolations(err)
	require.True(t, ok)

	// Todas as falhas vêm juntas, não só a primeira.
	assert.Contains(t, ve.Fields, "service_id")
	assert.Contains(t, ve.Fields, "appointments")
	assert.GreaterOrEqual(t, len(ve.Fields["appointments"]), 3)
}

func TestBulkCreateAllOrNothing(t *testing.T) {
	f := newFixture(t)

	s1 := f.slot(t, 2*time.Hour)
	s2 := f.slot(t, 4*time.Hour)

	// Um dos slots fica indisponível: a requisição inteira falha e o
	// outro slot não pode ficar reservado pela metade.
	require.NoError(t, f.db.Model(&models.ScheduleSlot{}).
		Where("id = ?", s2.ID).
		Updates(map[string]any{"is_available": false, "status": domainap.SlotBooked}).Error)

	in := f.bulkInput(s1.ID, s2.ID)

	uc := NewBulkCreateAppointments(f.repo, nil)

	_, err := uc.Execute(context.Background(), in)
	require.Error(t, err)

	// Rollback completo: s1 não ficou reservado.
	assert.Equal(t, int64(0), f.countAppointments(t))
	assert.True(t, f.reloadSlot(t, s1.ID).IsAvailable)
}

func TestBulkCreateNotifiesEachAppointment(t *testing.T) {
	f := newFixture(t)

	s1 := f.slot(t, 2*time.Hour)
	s2 := f.slot(t, 4*time.Hour)

	rec := &recordingNotifier{}
	uc := NewBulkCreateAppointments(f.repo, rec)

	res, err := uc.Execute(context.Background(), f.bulkInput(s1.ID, s2.ID))
	require.NoError(t, err)

	// Um disparo por agendamento, só depois do commit.
	assert.Equal(t, res.AppointmentIDs, rec.created)

	// Lote rejeitado não notifica ninguém.
	rec2 := &recordingNotifier{}
	uc2 := NewBulkCreateAppointments(f.repo, rec2)

	_, err = uc2.Execute(context.Background(), f.bulkInput(s1.ID))
	require.Error(t, err)
	assert.Empty(t, rec2.created)
}

func TestBulkCreateGuestFlow(t *testing.T) {
	f := newFixture(t)
	slot := f.slot(t, 2*time.Hour)

	in := f.bulkInput(slot.ID)
	in.ClientID = 0
	in.Guest = &GuestContact{Name: "Visitante", Phone: "+351912000111"}

	uc := NewBulkCreateAppointments(f.repo, nil)

	res, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)

	var guest models.User
	require.NoError(t, f.db.Where("is_guest = true").First(&guest).Error)
	assert.Equal(t, "Visitante", guest.Name)
	assert.Equal(t, guest.ID, res.Appointments[0].ClientID)

	// Mesmo telefone reusa o mesmo convidado.
	slot2 := f.slot(t, 4*time.Hour)
	in2 := f.bulkInput(slot2.ID)
	in2.ClientID = 0
	in2.Guest = &GuestContact{Name: "Visitante", Phone: "+351912000111"}

	res2, err := uc.Execute(context.Background(), in2)
	require.NoError(t, err)
	assert.Equal(t, guest.ID, res2.Appointments[0].ClientID)

	var guests int64
	f.db.Model(&models.User{}).Where("is_guest = true").Count(&guests)
	assert.Equal(t, int64(1), guests)
}

func TestBulkCreateGuestValidation(t *testing.T) {
	f := newFixture(t)
	slot := f.slot(t, 2*time.Hour)

	in := f.bulkInput(slot.ID)
	in.ClientID = 0
	in.Guest = &GuestContact{Name: "", Phone: "12345"}

	uc := NewBulkCreateAppointments(f.repo, nil)

	_, err := uc.Execute(context.Background(), in)
	ve, ok := httperr.AsViolations(err)
	require.True(t, ok)

	assert.Contains(t, ve.Fields, "guest.name")
	assert.Contains(t, ve.Fields, "guest.phone")
}

func TestBulkCreateWithSeries(t *testing.T) {
	f := newFixture(t)

	s1 := f.slot(t, 24*time.Hour)
	s2 := f.slot(t, 48*time.Hour)

	rule := "weekly"
	in := f.bulkInput(s1.ID, s2.ID)
	in.Series = &SeriesOptions{Notes: "pacote mensal", RecurrenceRule: &rule}

	uc := NewBulkCreateAppointments(f.repo, nil)

	res, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, res.SeriesID)

	var srs models.AppointmentSeries
	require.NoError(t, f.db.First(&srs, *res.SeriesID).Error)
	assert.Equal(t, "pacote mensal", srs.Notes)

	for _, ap := range res.Appointments {
		require.NotNil(t, ap.SeriesID)
		assert.Equal(t, *res.SeriesID, *ap.SeriesID)
	}
}
