package bootstrap

import (
	"log/slog"

	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

// NewLogger builds the process logger from LOG_* settings and installs it as
// the slog default, which the transaction retry loop logs through.
func NewLogger(cfg config.Config) *slog.Logger {
	logger := middleware.NewLogger(cfg.Log).GetSlogLogger().With(
		slog.String("service", "booking-engine"),
		slog.String("store", cfg.Store.Driver),
	)
	slog.SetDefault(logger)
	return logger
}
