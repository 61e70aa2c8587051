package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/email-api/pkg/errors"
)

// DefaultFailureMessage is reported when a failed send carries no description.
const DefaultFailureMessage = "Failed to send email"

// SentResponse is returned when the provider accepted a message.
type SentResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"message_id"`
}

// FailedResponse is returned when the provider refused a message.
type FailedResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorResponse carries request-level errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondSent sends a 200 with the provider message id.
func RespondSent(c *gin.Context, message, messageID string) {
	c.JSON(http.StatusOK, SentResponse{
		Success:   true,
		Message:   message,
		MessageID: messageID,
	})
}

// RespondFailed sends a 500 describing a failed send.
func RespondFailed(c *gin.Context, reason string) {
	if reason == "" {
		reason = DefaultFailureMessage
	}
	c.JSON(http.StatusInternalServerError, FailedResponse{
		Success: false,
		Error:   reason,
	})
}

// RespondWithError sends an error response. Only AppErrors expose their
// message; anything else is reported as a generic internal error.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != apperrors.ErrInternal {
		c.JSON(appErr.StatusCode(), ErrorResponse{Error: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// AbortWithError is RespondWithError for middleware.
func AbortWithError(c *gin.Context, err error) {
	RespondWithError(c, err)
	c.Abort()
}
