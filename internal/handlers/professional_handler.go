package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonix/salon-scheduler/internal/middleware"
	"github.com/salonix/salon-scheduler/internal/models"
)

type ProfessionalHandler struct {
	db *gorm.DB
}

func NewProfessionalHandler(db *gorm.DB) *ProfessionalHandler {
	return &ProfessionalHandler{db: db}
}

// --------- Requests ---------

type CreateProfessionalRequest struct {
	Name string `json:"name" binding:"required"`
	Bio  string `json:"bio"`
}

type UpdateProfessionalRequest struct {
	Name     *string `json:"name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// --------- Handlers ---------

func (h *ProfessionalHandler) List(c *gin.Context) {
	tenantIDVal, _ := c.Get(middleware.ContextTenantID)
	tenantID := tenantIDVal.(uint)

	var pros []models.Professional
	if err := h.db.
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&pros).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_professionals"})
		return
	}

	c.JSON(http.StatusOK, pros)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	userIDVal, _ := c.Get(middleware.ContextUserID)
	userID := userIDVal.(uint)
	tenantIDVal, _ := c.Get(middleware.ContextTenantID)
	tenantID := tenantIDVal.(uint)

	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	pro := models.Professional{
		TenantID: tenantID,
		UserID:   userID,
		Name:     req.Name,
		Bio:      req.Bio,
		IsActive: true,
	}

	if err := h.db.Create(&pro).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_professional"})
		return
	}

	c.JSON(http.StatusCreated, pro)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	tenantIDVal, _ := c.Get(middleware.ContextTenantID)
	tenantID := tenantIDVal.(uint)

	id := c.Param("id")

	var pro models.Professional
	if err := h.db.
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&pro).Error; err != nil {

		c.JSON(http.StatusNotFound, gin.H{"error": "professional_not_found"})
		return
	}

	var req UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		pro.Name = *req.Name
	}
	if req.Bio != nil {
		pro.Bio = *req.Bio
	}
	if req.IsActive != nil {
		pro.IsActive = *req.IsActive
	}

	if err := h.db.Save(&pro).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_professional"})
		return
	}

	c.JSON(http.StatusOK, pro)
}
