package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apperrors "sheetcheck/internal/errors"
	"sheetcheck/internal/middleware"
)

// ClientLogHandler forwards browser log entries into the server log
type ClientLogHandler struct {
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(validator *middleware.Validator, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *ClientLogHandler {
	return &ClientLogHandler{
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "client_log")),
	}
}

// LogRequest represents a client log entry
type LogRequest struct {
	Level   string                 `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message string                 `json:"message" validate:"required,max=2000"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Source  string                 `json:"source,omitempty" validate:"max=255"`
}

// Bind implements render.Binder
func (req *LogRequest) Bind(r *http.Request) error {
	if req.Level == "" {
		req.Level = "info"
	}
	return nil
}

// Handle processes POST /api/logs
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := render.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, decodeError(err))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	attrs := []slog.Attr{
		slog.String("client_source", req.Source),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}

	h.logger.LogAttrs(r.Context(), clientLevel(req.Level), req.Message, attrs...)

	w.WriteHeader(http.StatusNoContent)
}

func clientLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
