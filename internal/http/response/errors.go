package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/workstation-backend/internal/domain/aggregates"
)

// StatusFor maps an aggregate error code to an HTTP status.
func StatusFor(code aggregates.ErrorCode) int {
	switch code {
	case aggregates.CodeValidation:
		return http.StatusUnprocessableEntity
	case aggregates.CodeNotFound:
		return http.StatusNotFound
	case aggregates.CodeConflict, aggregates.CodeInvalidState:
		return http.StatusConflict
	case aggregates.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	case aggregates.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondAggregateError renders err with its field errors. Internal errors
// never leak their cause to the client.
func RespondAggregateError(c *gin.Context, err error) {
	code := aggregates.CodeOf(err)
	if code == "" {
		code = aggregates.CodeInternal
	}
	status := StatusFor(code)

	msg := "internal error"
	if code != aggregates.CodeInternal && err != nil {
		msg = err.Error()
	}
	body := APIError{Message: msg, Code: string(code)}
	for _, f := range aggregates.FieldErrors(err) {
		body.Fields = append(body.Fields, FieldError{Field: f.Field, Message: f.Message})
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorEnvelope{Error: body})
}
