package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"blog-engagement/internal/domain"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorHandler maps fiber errors and the domain error taxonomy onto
// HTTP responses. Unexpected errors are logged with the trace id sent back.
func NewErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	log = log.Named("http")

	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		errorCode := "INTERNAL_ERROR"

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message

			switch code {
			case fiber.StatusBadRequest:
				errorCode = "BAD_REQUEST"
			case fiber.StatusUnauthorized:
				errorCode = "UNAUTHORIZED"
			case fiber.StatusForbidden:
				errorCode = "FORBIDDEN"
			case fiber.StatusNotFound:
				errorCode = "NOT_FOUND"
			case fiber.StatusConflict:
				errorCode = "CONFLICT"
			case fiber.StatusUnprocessableEntity:
				errorCode = "VALIDATION_ERROR"
			}
		// Partial outcomes come first: their causes (timeouts, missing rows)
		// are joined in, but the request did change state.
		case errors.Is(err, domain.ErrPartialDelete):
			errorCode, message = "PARTIAL_DELETE", "Delete stopped partway; repeat the delete to remove the remaining replies"
		case errors.Is(err, domain.ErrConsistency):
			errorCode, message = "CONSISTENCY_ERROR", "Change applied, but derived data could not be fully updated"
		case errors.Is(err, domain.ErrValidation):
			code, errorCode, message = fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error()
		case errors.Is(err, domain.ErrNotFound):
			code, errorCode, message = fiber.StatusNotFound, "NOT_FOUND", err.Error()
		case errors.Is(err, domain.ErrForbidden):
			code, errorCode, message = fiber.StatusForbidden, "FORBIDDEN", err.Error()
		case errors.Is(err, domain.ErrStoreTimeout):
			code, errorCode, message = fiber.StatusServiceUnavailable, "STORE_TIMEOUT", "Storage did not answer in time, retry the request"
		}

		traceID := uuid.New().String()[:8]
		if code >= fiber.StatusInternalServerError {
			log.Error("Request failed",
				zap.String("trace_id", traceID),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		return c.Status(code).JSON(ErrorResponse{
			Code:    errorCode,
			Message: message,
			TraceID: traceID,
		})
	}
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}
