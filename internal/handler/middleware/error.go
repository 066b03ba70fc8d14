package middleware

import (
	"log/slog"
	"net/http"

	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const stackLinesLogged = 5

// ErrorHandler renders the last public error a handler recorded. A private
// error (c.Error without AbortWithError) is mapped through httperr.StatusOf,
// so a forgotten sentinel still surfaces as 4xx instead of a bare 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if err.IsType(gin.ErrorTypePublic) {
				if resp, ok := err.Meta.(httperr.Response); ok {
					c.JSON(resp.Status, resp)
					return
				}
			}
		}

		if last := c.Errors.Last(); last != nil {
			status, msg := httperr.StatusOf(last.Err)
			if status >= http.StatusInternalServerError {
				slog.Error("unhandled request error",
					append(requestAttrs(c),
						"error", last.Err,
						"stack", errs.ExtractStackLines(last.Err, stackLinesLogged))...)
			}
			resp := httperr.Response{Status: status}
			resp.Error.Message = msg
			c.JSON(status, resp)
			return
		}

		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic", append(requestAttrs(c), "error", err)...)

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"

				c.JSON(http.StatusInternalServerError, resp)
				c.Abort()
			}
		}()
		c.Next()
	}
}

func requestAttrs(c *gin.Context) []any {
	attrs := []any{"method", c.Request.Method, "path", c.Request.URL.Path}
	if id := GetRequestID(c); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	if tenantID, ok := GetTenantID(c); ok {
		attrs = append(attrs, "tenant_id", tenantID.String())
	}
	return attrs
}
