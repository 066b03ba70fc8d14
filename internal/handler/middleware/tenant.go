package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"booking-engine/internal/handler/httperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TenantHeader = "X-Tenant-ID"

	ctxTenantIDKey = "tenant_id"
)

// RequireTenant resolves the calling tenant from the X-Tenant-ID header.
// Authentication happens upstream; this only scopes the request.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(TenantHeader))
		if raw == "" {
			httperr.AbortWithError(c, http.StatusBadRequest, nil, "Tenant header required", nil)
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil {
			slog.Warn("Invalid tenant header", "value", raw)
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid tenant header", nil)
			return
		}

		c.Set(ctxTenantIDKey, tenantID)
		c.Next()
	}
}

func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxTenantIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
