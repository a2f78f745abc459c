package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/facturio/facturio/internal/domain"
	"github.com/facturio/facturio/internal/middleware"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT, domain.ENUMBERCONFLICT:
		return http.StatusConflict
	case domain.ELIFECYCLE:
		return http.StatusUnprocessableEntity
	case domain.ECOLLABORATOR:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// ErrorResponse wraps the envelope under an "error" key.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// HTTPErrorHandler turns domain errors into JSON error responses. Internal
// errors are logged with full detail but reach the client as a generic
// message.
func HTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := domain.ErrorCode(err)
		status := ErrorCodeToHTTPStatus(code)
		message := domain.ErrorMessage(err)

		// echo's own errors (404 on unknown route, 405, bad bindings).
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			code = httpStatusToCode(status)
			if s, ok := he.Message.(string); ok {
				message = s
			}
		}

		if status >= 500 {
			log.Error().
				Err(err).
				Str("request_id", middleware.GetRequestID(c)).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		body := ErrorResponse{Error: ErrorBody{
			Code:      code,
			Message:   message,
			Fields:    domain.GetValidationFields(err),
			RequestID: middleware.GetRequestID(c),
		}}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func httpStatusToCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.EINVALID
	case http.StatusNotFound:
		return domain.ENOTFOUND
	case http.StatusConflict:
		return domain.ECONFLICT
	default:
		return domain.EINTERNAL
	}
}
