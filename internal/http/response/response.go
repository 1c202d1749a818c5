package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/openrotor/basestation/internal/domain/aggregates"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAggregateError maps aggregate error codes onto HTTP statuses.
// Conflicts are surfaced as 409 with a retryable hint so callers know
// to re-issue the request.
func RespondAggregateError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	status := http.StatusInternalServerError
	retryable := false
	switch code {
	case domainagg.CodeValidation:
		status = http.StatusBadRequest
	case domainagg.CodeNotFound:
		status = http.StatusNotFound
	case domainagg.CodeInvalidTransition:
		status = http.StatusConflict
	case domainagg.CodeConflict:
		status = http.StatusConflict
		retryable = true
	case domainagg.CodeRetryable:
		status = http.StatusServiceUnavailable
		retryable = true
	}
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message:   msg,
			Code:      string(code),
			Retryable: retryable,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
