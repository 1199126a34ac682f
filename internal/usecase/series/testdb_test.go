package series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domainap "github.com/salonix/salon-scheduler/internal/domain/appointment"
	infrarepo "github.com/salonix/salon-scheduler/internal/infra/repository"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/timezone"
	ucappointment "github.com/salonix/salon-scheduler/internal/usecase/appointment"
)

type fixture struct {
	db   *gorm.DB
	repo *infrarepo.BookingGormRepository

	tenant  models.Tenant
	owner   models.User
	client  models.User
	service models.Service
	pro     models.Professional
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Service{},
		&models.Professional{},
		&models.ScheduleSlot{},
		&models.AppointmentSeries{},
		&models.Appointment{},
		&models.NotificationLog{},
	))

	f := &fixture{db: db, repo: infrarepo.NewBookingGormRepository(db)}

	f.tenant = models.Tenant{Name: "Salão Aurora", Slug: "aurora", IsActive: true, Timezone: "Europe/Lisbon"}
	require.NoError(t, db.Create(&f.tenant).Error)

	f.owner = models.User{TenantID: f.tenant.ID, Name: "Marta", Email: "marta@aurora.pt", Role: models.RoleSalon}
	require.NoError(t, db.Create(&f.owner).Error)

	f.client = models.User{TenantID: f.tenant.ID, Name: "Rui", Email: "rui@example.pt", Phone: "+351912345678", Role: models.RoleClient}
	require.NoError(t, db.Create(&f.client).Error)

	f.service = models.Service{TenantID: f.tenant.ID, UserID: f.owner.ID, Name: "Corte", DurationMinutes: 30, PriceEUR: 15}
	require.NoError(t, db.Create(&f.service).Error)

	f.pro = models.Professional{TenantID: f.tenant.ID, UserID: f.owner.ID, Name: "Inês", IsActive: true}
	require.NoError(t, db.Create(&f.pro).Error)

	return f
}

func (f *fixture) slot(t *testing.T, offset time.Duration) models.ScheduleSlot {
	t.Helper()

	start := timezone.Now().Add(offset)
	slot := models.ScheduleSlot{
		TenantID:       f.tenant.ID,
		ProfessionalID: f.pro.ID,
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		IsAvailable:    true,
		Status:         domainap.SlotAvailable,
	}
	require.NoError(t, f.db.Create(&slot).Error)
	return slot
}

// newSeries cria uma série com um agendamento futuro por offset, via
// fluxo real de bulk booking.
func (f *fixture) newSeries(t *testing.T, offsets ...time.Duration) *ucappointment.BulkCreateResult {
	t.Helper()

	items := make([]ucappointment.BulkItem, 0, len(offsets))
	for _, off := range offsets {
		slot := f.slot(t, off)
		items = append(items, ucappointment.BulkItem{SlotID: slot.ID})
	}

	bulk := ucappointment.NewBulkCreateAppointments(f.repo, nil)
	uc := NewCreateSeries(bulk)

	res, err := uc.Execute(context.Background(), ucappointment.BulkCreateInput{
		TenantID:       f.tenant.ID,
		ClientID:       f.client.ID,
		ServiceID:      f.service.ID,
		ProfessionalID: f.pro.ID,
		Items:          items,
		Notes:          "série de testes",
	})
	require.NoError(t, err)
	require.NotNil(t, res.SeriesID)
	return res
}

func (f *fixture) reloadSlot(t *testing.T, id uint) models.ScheduleSlot {
	t.Helper()

	var slot models.ScheduleSlot
	require.NoError(t, f.db.First(&slot, id).Error)
	return slot
}

func (f *fixture) reloadAppointment(t *testing.T, id uint) models.Appointment {
	t.Helper()

	var ap models.Appointment
	require.NoError(t, f.db.First(&ap, id).Error)
	return ap
}

// moveSlotToPast recua o início do slot de um agendamento para ontem,
// simulando uma ocorrência que já aconteceu.
func (f *fixture) moveSlotToPast(t *testing.T, slotID uint) {
	t.Helper()

	past := timezone.Now().Add(-24 * time.Hour)
	require.NoError(t, f.db.Model(&models.ScheduleSlot{}).
		Where("id = ?", slotID).
		Updates(map[string]any{
			"start_time": past,
			"end_time":   past.Add(30 * time.Minute),
		}).Error)
}
