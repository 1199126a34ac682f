package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/middleware"
	"github.com/salonix/salon-scheduler/internal/models"
	ucappointment "github.com/salonix/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db       *gorm.DB
	createUC *ucappointment.CreateAppointment
	cancelUC *ucappointment.CancelAppointment
	bulkUC   *ucappointment.BulkCreateAppointments
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucappointment.CreateAppointment,
	cancelUC *ucappointment.CancelAppointment,
	bulkUC *ucappointment.BulkCreateAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:       db,
		createUC: createUC,
		cancelUC: cancelUC,
		bulkUC:   bulkUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID      uint   `json:"service_id" binding:"required"`
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	SlotID         uint   `json:"slot_id" binding:"required"`
	Notes          string `json:"notes"`
}

type BulkItemRequest struct {
	SlotID uint   `json:"slot_id" binding:"required"`
	Notes  string `json:"notes"`
}

type SeriesOptionsRequest struct {
	Notes          string     `json:"notes"`
	RecurrenceRule *string    `json:"recurrence_rule"`
	Count          *int       `json:"count"`
	Until          *time.Time `json:"until"`
}

type BulkAppointmentRequest struct {
	ServiceID      uint   `json:"service_id" binding:"required"`
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	Notes          string `json:"notes"`

	Items []BulkItemRequest `json:"items" binding:"required"`

	Series *SeriesOptionsRequest `json:"series"`
}

// ======================================================
// HELPERS
// ======================================================

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

func (r BulkAppointmentRequest) toInput(tenantID, clientID uint) ucappointment.BulkCreateInput {
	items := make([]ucappointment.BulkItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, ucappointment.BulkItem{
			SlotID: it.SlotID,
			Notes:  it.Notes,
		})
	}

	in := ucappointment.BulkCreateInput{
		TenantID:       tenantID,
		ClientID:       clientID,
		ServiceID:      r.ServiceID,
		ProfessionalID: r.ProfessionalID,
		Items:          items,
		Notes:          r.Notes,
	}

	if r.Series != nil {
		in.Series = &ucappointment.SeriesOptions{
			Notes:          r.Series.Notes,
			RecurrenceRule: r.Series.RecurrenceRule,
			Count:          r.Series.Count,
			Until:          r.Series.Until,
		}
	}

	return in
}

func bulkResultJSON(res *ucappointment.BulkCreateResult) gin.H {
	out := gin.H{
		"appointment_ids": res.AppointmentIDs,
		"count":           res.Count,
		"total_value":     res.TotalValue,
		"service":         res.ServiceName,
		"professional":    res.ProfessionalName,
		"appointments":    res.Appointments,
	}
	if res.SeriesID != nil {
		out["series_id"] = *res.SeriesID
	}
	return out
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucappointment.CreateAppointmentInput{
		TenantID:       tenantID,
		ClientID:       userID,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		SlotID:         req.SlotID,
		Notes:          req.Notes,
	})
	if err != nil {
		if !respondBusinessError(c, err) {
			httperr.Internal(c, "failed_to_create_appointment", "Erro ao criar agendamento.")
		}
		return
	}

	c.JSON(201, ap)
}

// ======================================================
// BULK
// ======================================================

func (h *AppointmentHandler) BulkCreate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req BulkAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.bulkUC.Execute(c.Request.Context(), req.toInput(tenantID, userID))
	if err != nil {
		if !respondBusinessError(c, err) {
			httperr.Internal(c, "failed_to_create_appointments", "Erro ao criar agendamentos.")
		}
		return
	}

	c.JSON(201, bulkResultJSON(res))
}

// ======================================================
// DETAIL
// ======================================================

// Get responde 404 tanto para agendamento inexistente quanto para
// agendamento de terceiros: leitura não revela existência.
func (h *AppointmentHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var ap models.Appointment
	if err := h.db.
		Preload("Slot").
		Preload("Service").
		Preload("Professional").
		Preload("Client").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&ap).Error; err != nil {

		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
		return
	}

	if ap.ClientID != userID && !domain.OwnedBySalonUser(&ap, userID) {
		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
		return
	}

	c.JSON(200, ap)
}

// ======================================================
// LIST (do próprio cliente)
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	q := h.db.
		Preload("Slot").
		Preload("Service").
		Preload("Professional").
		Joins("JOIN schedule_slots ON schedule_slots.id = appointments.slot_id").
		Where("appointments.tenant_id = ? AND appointments.client_id = ?", tenantID, userID)

	if status := c.Query("status"); status != "" {
		q = q.Where("appointments.status = ?", status)
	}

	var aps []models.Appointment
	if err := q.
		Order("schedule_slots.start_time ASC").
		Find(&aps).Error; err != nil {

		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(200, aps)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		if !respondBusinessError(c, err) {
			httperr.Internal(c, "failed_to_cancel_appointment", "Erro ao cancelar agendamento.")
		}
		return
	}

	c.JSON(200, ap)
}
