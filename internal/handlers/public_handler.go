package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/salonix/salon-scheduler/internal/domain/appointment"
	"github.com/salonix/salon-scheduler/internal/httperr"
	"github.com/salonix/salon-scheduler/internal/middleware"
	"github.com/salonix/salon-scheduler/internal/models"
	"github.com/salonix/salon-scheduler/internal/timezone"
	ucappointment "github.com/salonix/salon-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db     *gorm.DB
	bulkUC *ucappointment.BulkCreateAppointments
}

func NewPublicHandler(db *gorm.DB, bulkUC *ucappointment.BulkCreateAppointments) *PublicHandler {
	return &PublicHandler{db: db, bulkUC: bulkUC}
}

func contextTenant(c *gin.Context) *models.Tenant {
	return c.MustGet(middleware.ContextTenant).(*models.Tenant)
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicBulkRequest struct {
	GuestName  string `json:"guest_name" binding:"required"`
	GuestPhone string `json:"guest_phone"`
	GuestEmail string `json:"guest_email"`

	ServiceID      uint   `json:"service_id" binding:"required"`
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	Notes          string `json:"notes"`

	Items []BulkItemRequest `json:"items" binding:"required"`

	Series *SeriesOptionsRequest `json:"series"`
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	tenant := contextTenant(c)

	var services []models.Service
	if err := h.db.
		Where("tenant_id = ?", tenant.ID).
		Order("id ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(200, services)
}

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	tenant := contextTenant(c)

	var pros []models.Professional
	if err := h.db.
		Where("tenant_id = ? AND is_active = true", tenant.ID).
		Order("id ASC").
		Find(&pros).Error; err != nil {

		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	c.JSON(200, pros)
}

////////////////////////////////////////////////////////
// SLOTS
////////////////////////////////////////////////////////

// ListSlots devolve apenas slots disponíveis e futuros, em ordem de
// início: a vitrine pública do tenant.
func (h *PublicHandler) ListSlots(c *gin.Context) {
	tenant := contextTenant(c)

	now := timezone.NowIn(tenant.Timezone)

	q := h.db.
		Where("tenant_id = ? AND status = ? AND start_time > ?",
			tenant.ID, domain.SlotAvailable, now)

	if proID := c.Query("professional_id"); proID != "" {
		q = q.Where("professional_id = ?", proID)
	}

	if dateStr := c.Query("date"); dateStr != "" {
		loc := timezone.Location(tenant.Timezone)
		day, err := time.ParseInLocation("2006-01-02", dateStr, loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		q = q.Where("start_time >= ? AND start_time < ?", day, day.Add(24*time.Hour))
	}

	var slots []models.ScheduleSlot
	if err := q.
		Order("start_time ASC").
		Find(&slots).Error; err != nil {

		httperr.Internal(c, "failed_to_list_slots", "Erro ao listar horários.")
		return
	}

	c.JSON(200, slots)
}

////////////////////////////////////////////////////////
// BULK (convidado)
////////////////////////////////////////////////////////

func (h *PublicHandler) BulkCreate(c *gin.Context) {
	tenant := contextTenant(c)

	var req PublicBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	items := make([]ucappointment.BulkItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ucappointment.BulkItem{
			SlotID: it.SlotID,
			Notes:  it.Notes,
		})
	}

	in := ucappointment.BulkCreateInput{
		TenantID: tenant.ID,
		Guest: &ucappointment.GuestContact{
			Name:  req.GuestName,
			Phone: req.GuestPhone,
			Email: req.GuestEmail,
		},
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		Items:          items,
		Notes:          req.Notes,
	}

	if req.Series != nil {
		in.Series = &ucappointment.SeriesOptions{
			Notes:          req.Series.Notes,
			RecurrenceRule: req.Series.RecurrenceRule,
			Count:          req.Series.Count,
			Until:          req.Series.Until,
		}
	}

	res, err := h.bulkUC.Execute(c.Request.Context(), in)
	if err != nil {
		if !respondBusinessError(c, err) {
			httperr.Internal(c, "failed_to_create_appointments", "Erro ao criar agendamentos.")
		}
		return
	}

	c.JSON(201, bulkResultJSON(res))
}
