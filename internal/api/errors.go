package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"interviewbuddy/internal/errors"
)

// startOverPath is where the client goes when the interview it points at is gone.
const startOverPath = "/setup"

// statusFor maps an application error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case errors.CodeValidationError, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeUnauthorized:
		return http.StatusUnauthorized
	case errors.CodeConflict:
		return http.StatusConflict
	case errors.CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Internal causes are kept out of the body
// and attached to the context for the request logger.
func respondError(c *gin.Context, err error) {
	code := errors.Classify(err)
	status := statusFor(code)
	_ = c.Error(err)

	body := gin.H{"error": publicMessage(err, status), "code": code}
	if code == errors.CodeNotFound {
		body["redirect"] = startOverPath
	}
	c.AbortWithStatusJSON(status, body)
}

func publicMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return "Something went wrong. Please try again."
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Cause == nil {
		return appErr.Message
	}
	return err.Error()
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "code": errors.CodeInvalidInput})
}
