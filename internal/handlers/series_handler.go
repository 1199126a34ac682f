package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/middleware"
	"github.com/salonix/salon-scheduler/internal/models"
	ucseries "github.com/salonix/salon-scheduler/internal/usecase/series"
)

// ======================================================
// HANDLER
// ======================================================

type SeriesHandler struct {
	db         *gorm.DB
	createUC   *ucseries.CreateSeries
	cancelAll  *ucseries.CancelAllUpcoming
	editUC     *ucseries.EditUpcoming
	occurrence *ucseries.CancelOccurrence
}

func NewSeriesHandler(
	db *gorm.DB,
	createUC *ucseries.CreateSeries,
	cancelAll *ucseries.CancelAllUpcoming,
	editUC *ucseries.EditUpcoming,
	occurrence *ucseries.CancelOccurrence,
) *SeriesHandler {
	return &SeriesHandler{
		db:         db,
		createUC:   createUC,
		cancelAll:  cancelAll,
		editUC:     editUC,
		occurrence: occurrence,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// UpdateSeriesRequest é o PATCH de série: uma ação por chamada. O corte
// start_from é opcional e vale para as duas ações (padrão agora).
type UpdateSeriesRequest struct {
	Action string `json:"action" binding:"required"`

	StartFrom *time.Time `json:"start_from,omitempty"`

	// edit_upcoming
	Notes   *string `json:"notes,omitempty"`
	SlotIDs []uint  `json:"slot_ids,omitempty"`
}

// ======================================================
// CREATE
// ======================================================

func (h *SeriesHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	var req BulkAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.createUC.Execute(c.Request.Context(), req.toInput(tenantID, userID))
	if err != nil {
		if !respondBusinessError(c, err) {
			httperr.Internal(c, "failed_to_create_series", "Erro ao criar série.")
		}
		return
	}

	c.JSON(201, bulkResultJSON(res))
}

// ======================================================
// DETAIL
// ======================================================

// Get responde 404 para série inexistente ou de terceiros, como no
// detalhe de agendamento.
func (h *SeriesHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var srs models.AppointmentSeries
	if err := h.db.
		Preload("Service").
		Preload("Professional").
		Preload("Client").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&srs).Error; err != nil {

		httperr.NotFound(c, "series_not_found", "Série não encontrada.")
		return
	}

	if userID != srs.ClientID &&
		srs.Service.UserID != userID &&
		srs.Professional.UserID != userID {
		httperr.NotFound(c, "series_not_found", "Série não encontrada.")
		return
	}

	var aps []models.Appointment
	h.db.
		Preload("Slot").
		Joins("JOIN schedule_slots ON schedule_slots.id = appointments.slot_id").
		Where("appointments.series_id = ?", srs.ID).
		Order("schedule_slots.start_time ASC").
		Find(&aps)

	c.JSON(200, gin.H{
		"series":       srs,
		"appointments": aps,
	})
}

// ======================================================
// UPDATE (cancel_all | edit_upcoming)
// ======================================================

func (h *SeriesHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var (
		res *ucseries.UpdateResult
		err error
	)

	switch req.Action {
	case "cancel_all":
		res, err = h.cancelAll.Execute(c.Request.Context(), tenantID, userID, id, req.StartFrom)

	case "edit_upcoming":
		res, err = h.editUC.Execute(c.Request.Context(), ucseries.EditUpcomingInput{
			TenantID: tenantID,
			ActorID:  userID,
			SeriesID: id,
			Notes:    req.Notes,
			SlotIDs:  req.SlotIDs,
			From:     req.StartFrom,
		})

	default:
		httperr.BadRequest(c, "invalid_action", "Ação desconhecida.")
		return
	}

	if err != nil {
		if !respondBusinessError(c, err) {
			httperr.Internal(c, "failed_to_update_series", "Erro ao atualizar série.")
		}
		return
	}

	c.JSON(200, gin.H{
		"series_id":       res.SeriesID,
		"affected_count":  res.AffectedCount,
		"appointment_ids": res.AppointmentIDs,
	})
}

// ======================================================
// CANCEL OCCURRENCE
// ======================================================

func (h *SeriesHandler) CancelOccurrence(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	tenantID := c.MustGet(middleware.ContextTenantID).(uint)

	seriesID, ok := paramID(c, "id")
	if !ok {
		return
	}
	occurrenceID, ok := paramID(c, "occurrence_id")
	if !ok {
		return
	}

	ap, err := h.occurrence.Execute(c.Request.Context(), tenantID, userID, seriesID, occurrenceID)
	if err != nil {
		if !respondBusinessError(c, err) {
			httperr.Internal(c, "failed_to_cancel_occurrence", "Erro ao cancelar ocorrência.")
		}
		return
	}

	c.JSON(200, gin.H{
		"appointment_id": ap.ID,
		"status":         ap.Status,
	})
}
