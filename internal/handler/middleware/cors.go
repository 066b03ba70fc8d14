package middleware

import (
	"log/slog"
	"net/http"

	"booking-engine/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const RequestIDHeader = "X-Request-ID"

// Browser clients cannot call the booking API without these, so they are
// allowed whatever CORS_ALLOW_HEADERS lists.
var (
	requiredAllowHeaders  = []string{"Content-Type", "Accept-Language", TenantHeader}
	requiredExposeHeaders = []string{RequestIDHeader}
)

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     mergeHeaders(cfg.AllowHeaders, requiredAllowHeaders),
		ExposeHeaders:    mergeHeaders(cfg.ExposeHeaders, requiredExposeHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized",
		"AllowOrigins", cfg.AllowOrigins,
		"AllowHeaders", corsCfg.AllowHeaders)
	return cors.New(corsCfg)
}

// mergeHeaders appends required names missing from configured, comparing
// canonical header keys.
func mergeHeaders(configured, required []string) []string {
	seen := make(map[string]struct{}, len(configured)+len(required))
	merged := make([]string, 0, len(configured)+len(required))
	for _, h := range append(append([]string{}, configured...), required...) {
		key := http.CanonicalHeaderKey(h)
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, key)
	}
	return merged
}
