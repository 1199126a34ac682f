package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonix/salon-scheduler/internal/dto"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/httpresp"
	"github.com/salonix/salon-scheduler/internal/middleware"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/timezone"
	ucappointment "github.com/salonix/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type SalonAppointmentHandler struct {
	db         *gorm.DB
	editUC     *ucappointment.EditAppointment
	completeUC *ucappointment.CompleteAppointment
	payUC      *ucappointment.PayAppointment
}

func NewSalonAppointmentHandler(
	db *gorm.DB,
	editUC *ucappointment.EditAppointment,
	completeUC *ucappointment.CompleteAppointment,
	payUC *ucappointment.PayAppointment,
) *SalonAppointmentHandler {
	return &SalonAppointmentHandler{
		db:         db,
		editUC:     editUC,
		completeUC: completeUC,
		payUC:      payUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type EditAppointmentRequest struct {
	SlotID *uint   `json:"slot_id,omitempty"`
	Notes  *string `json:"notes,omitempty"`
	Status *string `json:"status,omitempty"`
}

// ======================================================
// EDIT (PATCH)
// ======================================================

func (h *SalonAppointmentHandler) Edit(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req EditAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.editUC.Execute(c.Request.Context(), ucappointment.EditAppointmentInput{
		TenantID:      tenantID,
		ActorID:       userID,
		AppointmentID: id,
		SlotID:        req.SlotID,
		Notes:         req.Notes,
		Status:        req.Status,
	})
	if err != nil {
		if !respondBusinessError(c, err) {
			httperr.Internal(c, "failed_to_edit_appointment", "Erro ao editar agendamento.")
		}
		return
	}

	c.JSON(200, ap)
}

// ======================================================
// COMPLETE / PAY
// ======================================================

func (h *SalonAppointmentHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		if !respondBusinessError(c, err) {
			httperr.Internal(c, "failed_to_complete_appointment", "Erro ao concluir agendamento.")
		}
		return
	}

	c.JSON(200, ap)
}

func (h *SalonAppointmentHandler) Pay(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.payUC.Execute(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		if !respondBusinessError(c, err) {
			httperr.Internal(c, "failed_to_pay_appointment", "Erro ao registrar pagamento.")
		}
		return
	}

	c.JSON(200, ap)
}

// ======================================================
// LIST (lado do salão, com filtros)
// ======================================================

// List devolve os agendamentos dos serviços e profissionais do
// usuário logado, com filtros opcionais de status e data.
func (h *SalonAppointmentHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	q := h.db.
		Preload("Slot").
		Preload("Service").
		Preload("Professional").
		Preload("Client").
		Joins("JOIN schedule_slots ON schedule_slots.id = appointments.slot_id").
		Joins("JOIN services ON services.id = appointments.service_id").
		Joins("JOIN professionals ON professionals.id = appointments.professional_id").
		Where("appointments.tenant_id = ?", tenantID).
		Where("services.user_id = ? OR professionals.user_id = ?", userID, userID)

	if status := c.Query("status"); status != "" {
		q = q.Where("appointments.status = ?", status)
	}

	if dateStr := c.Query("date"); dateStr != "" {
		loc := timezone.Location(timezone.DefaultTimezone)
		day, err := time.ParseInLocation("2006-01-02", dateStr, loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		q = q.Where(
			"schedule_slots.start_time >= ? AND schedule_slots.start_time < ?",
			day, day.Add(24*time.Hour),
		)
	}

	var aps []models.Appointment
	if err := q.
		Order("schedule_slots.start_time ASC").
		Find(&aps).Error; err != nil {

		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	out := make([]dto.SalonAppointmentDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, dto.NewSalonAppointmentDTO(&ap))
	}

	httpresp.List(c, out)
}
