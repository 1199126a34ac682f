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

func (f *fixture) book(t *testing.T, slotID uint) *models.Appointment {
	t.Helper()

	uc := NewCreateAppointment(f.repo, nil)
	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		TenantID:       f.tenant.ID,
		ClientID:       f.client.ID,
		ServiceID:      f.service.ID,
		ProfessionalID: f.pro.ID,
		SlotID:         slotID,
	})
	require.NoError(t, err)
	return ap
}

func TestCancelAppointmentFreesSlot(t *testing.T) {
	f := newFixture(t)
	slot := f.slot(t, 2*time.Hour)
	ap := f.book(t, slot.ID)

	uc := NewCancelAppointment(f.repo, nil)

	got, err := uc.Execute(context.Background(), f.tenant.ID, f.client.ID, ap.ID)
	require.NoError(t, err)

	assert.Equal(t, string(domainap.StatusCancelled), got.Status)
	require.NotNil(t, got.CancelledByID)
	assert.Equal(t, f.client.ID, *got.CancelledByID)
	assert.NotNil(t, got.CancelledAt)

	freed := f.reloadSlot(t, slot.ID)
	assert.True(t, freed.IsAvailable)
	assert.Equal(t, domainap.SlotAvailable, freed.Status)
}

func TestCancelAppointmentTwiceRejected(t *testing.T) {
	f := newFixture(t)
	slot := f.slot(t, 2*time.Hour)
	ap := f.book(t, slot.ID)

	uc := NewCancelAppointment(f.repo, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, f.tenant.ID, f.client.ID, ap.ID)
	require.NoError(t, err)

	_, err = uc.Execute(ctx, f.tenant.ID, f.client.ID, ap.ID)
	assert.True(t, httperr.IsBusiness(err, "already_cancelled"))
}

func TestCancelAppointmentBySalonOwner(t *testing.T) {
	f := newFixture(t)
	slot := f.slot(t, 2*time.Hour)
	ap := f.book(t, slot.ID)

	uc := NewCancelAppointment(f.repo, nil)

	got, err := uc.Execute(context.Background(), f.tenant.ID, f.owner.ID, ap.ID)
	require.NoError(t, err)

	require.NotNil(t, got.CancelledByID)
	assert.Equal(t, f.owner.ID, *got.CancelledByID)
}

func TestCancelAppointmentForbiddenForStranger(t *testing.T) {
	f := newFixture(t)
	slot := f.slot(t, 2*time.Hour)
	ap := f.book(t, slot.ID)

	stranger := models.User{TenantID: f.tenant.ID, Name: "Zé", Email: "ze@example.pt", Role: models.RoleClient}
	require.NoError(t, f.db.Create(&stranger).Error)

	uc := NewCancelAppointment(f.repo, nil)

	_, err := uc.Execute(context.Background(), f.tenant.ID, stranger.ID, ap.ID)
	assert.True(t, httperr.IsBusiness(err, "forbidden"))

	// Nada mudou.
	kept := f.reloadAppointment(t, ap.ID)
	assert.Equal(t, string(domainap.StatusScheduled), kept.Status)
}

func TestCancelAppointmentUnknownID(t *testing.T) {
	f := newFixture(t)

	uc := NewCancelAppointment(f.repo, nil)

	_, err := uc.Execute(context.Background(), f.tenant.ID, f.client.ID, 9999)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestCancelThenRebookSameSlot(t *testing.T) {
	f := newFixture(t)
	slot := f.slot(t, 2*time.Hour)
	ap := f.book(t, slot.ID)

	cancelUC := NewCancelAppointment(f.repo, nil)
	_, err := cancelUC.Execute(context.Background(), f.tenant.ID, f.client.ID, ap.ID)
	require.NoError(t, err)

	// O slot liberado volta a ser reservável.
	again := f.book(t, slot.ID)
	assert.NotEqual(t, ap.ID, again.ID)

	got := f.reloadSlot(t, slot.ID)
	assert.False(t, got.IsAvailable)
}
