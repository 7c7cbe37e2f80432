package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// LoggingMiddleware добавляет структурированное логирование
func LoggingMiddleware(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Ошибку сразу отдаем ErrorHandler, чтобы в лог попал итоговый статус
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			// Логируем детали запроса
			latency := time.Since(start)
			status := c.Response().Status

			entry := logger.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"uri":        c.Request().URL.Path,
				"route":      c.Path(),
				"status":     status,
				"latency":    latency,
				"bytes_out":  c.Response().Size,
				"user_agent": c.Request().UserAgent(),
				"ip":         c.RealIP(),
			})
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				entry = entry.WithField("request_id", id)
			}

			if err != nil {
				entry = entry.WithField("error", err.Error())
			}

			if status >= 500 {
				entry.Error("Server error")
			} else if status >= 400 {
				entry.Warn("Client error")
			} else {
				entry.Info("Request processed")
			}

			return nil
		}
	}
}

// ErrorHandler отдает ошибки echo (роутинг, биндинг параметров) в формате ErrorResponse.
func ErrorHandler(logger *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		code := "INTERNAL_ERROR"
		message := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
			switch {
			case status == http.StatusNotFound:
				code = "NOT_FOUND"
			case status < 500:
				code = "INVALID_REQUEST"
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, toErrorResponse(code, message))
		}
		if err != nil {
			logger.WithError(err).Error("Failed to write error response")
		}
	}
}
