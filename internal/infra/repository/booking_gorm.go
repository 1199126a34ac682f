package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *BookingGormRepository) InTransaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// lockClause adiciona FOR UPDATE apenas onde o dialeto suporta
// (sqlite dos testes serializa escritas por conta própria).
func (r *BookingGormRepository) lockClause(q *gorm.DB) *gorm.DB {
	if r.db.Dialector.Name() == "postgres" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	tenantID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", serviceID, tenantID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *BookingGormRepository) GetProfessional(
	ctx context.Context,
	tenantID uint,
	professionalID uint,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", professionalID, tenantID).
		First(&pro).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *BookingGormRepository) GetUser(
	ctx context.Context,
	userID uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *BookingGormRepository) GetOrCreateGuest(
	ctx context.Context,
	tenantID uint,
	name string,
	phone string,
	email string,
) (*models.User, error) {

	var user models.User
	q := r.db.WithContext(ctx).Where("tenant_id = ? AND is_guest = ?", tenantID, true)
	if phone != "" {
		q = q.Where("phone = ?", phone)
	} else {
		q = q.Where("email = ?", email)
	}

	if err := q.First(&user).Error; err == nil {
		return &user, nil
	}

	user = models.User{
		TenantID: tenantID,
		Name:     name,
		Phone:    phone,
		Email:    email,
		Role:     models.RoleClient,
		IsGuest:  true,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *BookingGormRepository) GetSlot(
	ctx context.Context,
	tenantID uint,
	slotID uint,
) (*models.ScheduleSlot, error) {

	var slot models.ScheduleSlot
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", slotID, tenantID).
		First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *BookingGormRepository) GetSlotForUpdate(
	ctx context.Context,
	tenantID uint,
	slotID uint,
) (*models.ScheduleSlot, error) {

	var slot models.ScheduleSlot
	q := r.lockClause(r.db.WithContext(ctx)).
		Where("id = ? AND tenant_id = ?", slotID, tenantID)
	if err := q.First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *BookingGormRepository) ListSlots(
	ctx context.Context,
	tenantID uint,
	slotIDs []uint,
) ([]models.ScheduleSlot, error) {

	var slots []models.ScheduleSlot
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND tenant_id = ?", slotIDs, tenantID).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *BookingGormRepository) ListSlotsForUpdate(
	ctx context.Context,
	tenantID uint,
	slotIDs []uint,
) ([]models.ScheduleSlot, error) {

	var slots []models.ScheduleSlot
	q := r.lockClause(r.db.WithContext(ctx)).
		Where("id IN ? AND tenant_id = ?", slotIDs, tenantID).
		Order("start_time ASC")
	if err := q.Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *BookingGormRepository) SaveSlot(
	ctx context.Context,
	slot *models.ScheduleSlot,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(slot).Error
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *BookingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	// Associações já existem; gravamos apenas a linha do agendamento.
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *BookingGormRepository) SaveAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *BookingGormRepository) GetAppointment(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Preload("Service").
		Preload("Professional").
		Preload("Client").
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *BookingGormRepository) HasActiveBookingOnSlot(
	ctx context.Context,
	clientID uint,
	slotID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"client_id = ? AND slot_id = ? AND status <> ?",
			clientID, slotID, string(domain.StatusCancelled),
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Series
// --------------------------------------------------

func (r *BookingGormRepository) CreateSeries(
	ctx context.Context,
	series *models.AppointmentSeries,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(series).Error
}

func (r *BookingGormRepository) SaveSeries(
	ctx context.Context,
	series *models.AppointmentSeries,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(series).Error
}

func (r *BookingGormRepository) GetSeries(
	ctx context.Context,
	tenantID uint,
	seriesID uint,
) (*models.AppointmentSeries, error) {

	var series models.AppointmentSeries
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Professional").
		Where("id = ? AND tenant_id = ?", seriesID, tenantID).
		First(&series).Error; err != nil {
		return nil, err
	}
	return &series, nil
}

func (r *BookingGormRepository) ListSeriesAppointmentsFrom(
	ctx context.Context,
	seriesID uint,
	from time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Joins("JOIN schedule_slots ON schedule_slots.id = appointments.slot_id").
		Where("appointments.series_id = ? AND schedule_slots.start_time > ?", seriesID, from).
		Order("schedule_slots.start_time ASC").
		Preload("Slot").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *BookingGormRepository) GetSeriesOccurrence(
	ctx context.Context,
	seriesID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Preload("Service").
		Preload("Professional").
		Where("id = ? AND series_id = ?", appointmentID, seriesID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}
