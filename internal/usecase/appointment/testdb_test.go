package appointment

import (
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
)

func newTestDB(t *testing.T) *gorm.DB {
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

	return db
}

// fixture monta um tenant completo: dono do salão, cliente, serviço e
// profissional, todos persistidos.
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

	db := newTestDB(t)
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

// slot cria um slot disponível do profissional padrão começando em
// now+offset, com 30 minutos de duração.
func (f *fixture) slot(t *testing.T, offset time.Duration) models.ScheduleSlot {
	t.Helper()
	return f.slotFor(t, f.pro.ID, offset)
}

func (f *fixture) slotFor(t *testing.T, proID uint, offset time.Duration) models.ScheduleSlot {
	t.Helper()

	start := timezone.Now().Add(offset)
	slot := models.ScheduleSlot{
		TenantID:       f.tenant.ID,
		ProfessionalID: proID,
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		IsAvailable:    true,
		Status:         domainap.SlotAvailable,
	}
	require.NoError(t, f.db.Create(&slot).Error)
	return slot
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

// recordingNotifier captura os disparos em memória para asserções.
type recordingNotifier struct {
	created   []uint
	cancelled []uint
}

func (r *recordingNotifier) AppointmentCreated(ap *models.Appointment) {
	r.created = append(r.created, ap.ID)
}

func (r *recordingNotifier) AppointmentCancelled(ap *models.Appointment, _ *models.User) {
	r.cancelled = append(r.cancelled, ap.ID)
}

func (r *recordingNotifier) AppointmentReminder(_ *models.Appointment) {}

func (f *fixture) countAppointments(t *testing.T) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(&models.Appointment{}).Count(&n).Error)
	return n
}
