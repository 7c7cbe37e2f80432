package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// BaseHandler содержит общий логгер и хелперы обработчиков
type BaseHandler struct {
	logger *logrus.Logger
}

func NewBaseHandler(logger *logrus.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// logRequest возвращает запись лога с операцией, маршрутом и request id
func (h *BaseHandler) logRequest(c echo.Context, operation string) *logrus.Entry {
	fields := logrus.Fields{
		"operation": operation,
		"method":    c.Request().Method,
		"route":     c.Path(),
		"ip":        c.RealIP(),
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		fields["request_id"] = id
	}
	return h.logger.WithFields(fields)
}

// bindBody разбирает JSON-тело. Ошибка отдается ErrorHandler как INVALID_REQUEST.
func (h *BaseHandler) bindBody(c echo.Context, logEntry *logrus.Entry, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		logEntry.WithError(err).Warn("Failed to bind request body")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return nil
}
