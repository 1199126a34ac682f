package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/middleware"
	"github.com/salonix/salon-scheduler/internal/models"
)

type SlotHandler struct {
	db *gorm.DB
}

func NewSlotHandler(db *gorm.DB) *SlotHandler {
	return &SlotHandler{db: db}
}

// --------- Requests ---------

type CreateSlotRequest struct {
	ProfessionalID uint      `json:"professional_id" binding:"required"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	EndTime        time.Time `json:"end_time" binding:"required"`
}

type UpdateSlotRequest struct {
	// Só alterna entre available e blocked; booked pertence ao motor
	// de agendamentos.
	Status *string `json:"status,omitempty"`
}

// --------- Handlers ---------

func (h *SlotHandler) List(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	q := h.db.Where("tenant_id = ?", tenantID)

	if proID := c.Query("professional_id"); proID != "" {
		q = q.Where("professional_id = ?", proID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var slots []models.ScheduleSlot
	if err := q.
		Order("start_time ASC").
		Find(&slots).Error; err != nil {

		httperr.Internal(c, "failed_to_list_slots", "Erro ao listar horários.")
		return
	}

	c.JSON(http.StatusOK, slots)
}

func (h *SlotHandler) Create(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if !req.EndTime.After(req.StartTime) {
		httperr.BadRequest(c, "invalid_interval", "Fim deve ser depois do início.")
		return
	}

	var pro models.Professional
	if err := h.db.
		Where("id = ? AND tenant_id = ?", req.ProfessionalID, tenantID).
		First(&pro).Error; err != nil {

		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	var overlap int64
	h.db.Model(&models.ScheduleSlot{}).
		Where(
			"professional_id = ? AND start_time < ? AND end_time > ?",
			req.ProfessionalID, req.EndTime, req.StartTime,
		).
		Count(&overlap)
	if overlap > 0 {
		httperr.BadRequest(c, "slot_overlap", "Horário sobrepõe um existente.")
		return
	}

	slot := models.ScheduleSlot{
		TenantID:       tenantID,
		ProfessionalID: req.ProfessionalID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsAvailable:    true,
		Status:         domain.SlotAvailable,
	}

	if err := h.db.Create(&slot).Error; err != nil {
		httperr.Internal(c, "failed_to_create_slot", "Erro ao criar horário.")
		return
	}

	c.JSON(http.StatusCreated, slot)
}

func (h *SlotHandler) Update(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var slot models.ScheduleSlot
	if err := h.db.
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&slot).Error; err != nil {

		httperr.NotFound(c, "slot_not_found", "Horário não encontrado.")
		return
	}

	var req UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Status != nil {
		if slot.Status == domain.SlotBooked {
			httperr.BadRequest(c, "slot_booked", "Horário reservado não pode ser alterado aqui.")
			return
		}

		switch *req.Status {
		case domain.SlotAvailable:
			domain.MarkAvailable(&slot)
		case domain.SlotBlocked:
			domain.MarkBlocked(&slot)
		default:
			httperr.BadRequest(c, "invalid_status", "Status inválido.")
			return
		}
	}

	if err := h.db.Save(&slot).Error; err != nil {
		httperr.Internal(c, "failed_to_update_slot", "Erro ao atualizar horário.")
		return
	}

	c.JSON(http.StatusOK, slot)
}

// Delete recusa remover slots referenciados por agendamentos não
// cancelados; o CASCADE do banco nunca deve apagar história ativa.
func (h *SlotHandler) Delete(c *gin.Context) {
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var slot models.ScheduleSlot
	if err := h.db.
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&slot).Error; err != nil {

		httperr.NotFound(c, "slot_not_found", "Horário não encontrado.")
		return
	}

	var active int64
	h.db.Model(&models.Appointment{}).
		Where("slot_id = ? AND status <> ?", slot.ID, string(domain.StatusCancelled)).
		Count(&active)
	if active > 0 {
		httperr.BadRequest(c, "slot_in_use", "Horário tem agendamentos ativos.")
		return
	}

	if err := h.db.Delete(&slot).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_slot", "Erro ao remover horário.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": slot.ID})
}
