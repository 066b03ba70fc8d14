package api

import (
	"net/http"
	"strings"

	reqdto "booking-engine/internal/handler/dto/request"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Get available slots
// @Description Slots for one staff member, or for every eligible member ranked by locale
// @Tags availability
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param services query []string true "Service ids or codes" collectionFormat(multi)
// @Param staffId query string false "Staff ID"
// @Param bufferMinutes query int false "Buffer override in minutes"
// @Param durationMinutes query int false "Duration override in minutes"
// @Param locale query string false "Client locale; defaults to Accept-Language"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusBadRequest, nil, "Tenant header required", nil)
		return
	}

	var req reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = preferredLocale(c)
	}

	result, err := h.q.GetAvailableSlots(c.Request.Context(), queries.AvailabilityParams{
		TenantID:      tenantID,
		Date:          req.Date,
		ServiceRefs:   req.ServiceRefs(),
		StaffID:       req.StaffUUID(),
		BufferMinutes: req.BufferMinutes,
		DurationMin:   req.DurationMinutes,
		Locale:        locale,
	})
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityResult(result))
}

// preferredLocale returns the highest-weighted Accept-Language tag, or "".
func preferredLocale(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Accept-Language"))
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}
