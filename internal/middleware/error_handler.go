package middleware

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/apperrors"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details []apperrors.FieldIssue `json:"details,omitempty"`
}

// NewErrorHandler renders every failure as {"error": ..., "details": ...}.
// Causes of 5xx responses are logged and never sent to the client.
func NewErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := toResponse(err)
		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func toResponse(err error) (int, ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, ErrorResponse{Error: msg}
	}

	appErr := apperrors.As(err)
	return appErr.StatusCode(), ErrorResponse{Error: appErr.Message, Details: appErr.Details}
}
