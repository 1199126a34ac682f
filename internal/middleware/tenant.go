package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonix/salon-scheduler/internal/models"
)

const ContextTenant = "tenant"

// TenantMiddleware resolve o tenant das rotas públicas pelo header
// X-Tenant-Slug (ou ?tenant= como fallback). Slug desconhecido ou
// tenant inativo respondem 404 sem distinção.
func TenantMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := strings.TrimSpace(c.GetHeader("X-Tenant-Slug"))
		if slug == "" {
			slug = strings.TrimSpace(c.Query("tenant"))
		}
		if slug == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing_tenant_slug"})
			return
		}

		var tenant models.Tenant
		if err := db.
			Where("slug = ? AND is_active = true", strings.ToLower(slug)).
			First(&tenant).Error; err != nil {

			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "tenant_not_found"})
			return
		}

		c.Set(ContextTenant, &tenant)
		c.Next()
	}
}
