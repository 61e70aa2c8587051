package email

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	emailsvc "github.com/jwalitptl/email-api/internal/email"
	apperrors "github.com/jwalitptl/email-api/pkg/errors"
	"github.com/jwalitptl/email-api/pkg/httputil"
)

// Validation messages returned with a 400.
const (
	msgNoData             = "No data provided"
	msgVerificationFields = "Email and verification_link are required"
	msgResetFields        = "Email and reset_link are required"
	msgWelcomeFields      = "Email is required"
	msgCustomFields       = "to_addresses, subject, and html_body are required"
)

// Sender is the engine the handlers drive. *emailsvc.Service implements it.
type Sender interface {
	Send(ctx context.Context, msg *emailsvc.Message) emailsvc.Result
	SendVerification(ctx context.Context, addr, verificationLink, userName string) emailsvc.Result
	SendPasswordReset(ctx context.Context, addr, resetLink, userName string) emailsvc.Result
	SendWelcome(ctx context.Context, addr, userName string) emailsvc.Result
}

type Handler struct {
	svc      Sender
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewHandler(svc Sender, logger zerolog.Logger) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	return &Handler{
		svc:      svc,
		validate: v,
		logger:   logger.With().Str("component", "handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/send-verification", h.SendVerification)
	r.POST("/send-password-reset", h.SendPasswordReset)
	r.POST("/send-welcome", h.SendWelcome)
	r.POST("/send-custom", h.SendCustom)
}

func (h *Handler) SendVerification(c *gin.Context) {
	var req VerificationRequest
	if !h.bind(c, "send_verification_email", &req, msgVerificationFields) {
		return
	}

	result := h.svc.SendVerification(c.Request.Context(), req.Email, req.VerificationLink, req.UserName)
	respond(c, result, "Verification email sent successfully")
}

func (h *Handler) SendPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if !h.bind(c, "send_password_reset_email", &req, msgResetFields) {
		return
	}

	result := h.svc.SendPasswordReset(c.Request.Context(), req.Email, req.ResetLink, req.UserName)
	respond(c, result, "Password reset email sent successfully")
}

func (h *Handler) SendWelcome(c *gin.Context) {
	var req WelcomeRequest
	if !h.bind(c, "send_welcome_email", &req, msgWelcomeFields) {
		return
	}

	result := h.svc.SendWelcome(c.Request.Context(), req.Email, req.UserName)
	respond(c, result, "Welcome email sent successfully")
}

func (h *Handler) SendCustom(c *gin.Context) {
	var req CustomRequest
	if !h.bind(c, "send_custom_email", &req, msgCustomFields) {
		return
	}

	result := h.svc.Send(c.Request.Context(), &emailsvc.Message{
		To:      req.ToAddresses,
		CC:      req.CCAddresses,
		BCC:     req.BCCAddresses,
		ReplyTo: req.ReplyTo,
		Subject: req.Subject,
		HTML:    req.HTMLBody,
		Text:    req.TextBody,
	})
	respond(c, result, "Email sent successfully")
}

// bind decodes the body into req and checks its required fields. On failure
// it writes the response and returns false.
func (h *Handler) bind(c *gin.Context, op string, req any, requiredMsg string) bool {
	err := decodeBody(c.Request.Body, req)
	if errors.Is(err, errAddressShape) {
		err = apperrors.BadRequest(requiredMsg, err)
	}
	if err == nil {
		err = h.requireFields(req, requiredMsg)
	}
	if err == nil {
		return true
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code == apperrors.ErrInternal {
		h.logger.Error().Err(err).Str("operation", op).Msg("failed to handle request")
	}
	httputil.RespondWithError(c, err)
	return false
}

// requireFields runs the struct's required tags and reports any miss with
// the operation's fixed message.
func (h *Handler) requireFields(req any, message string) error {
	if err := h.validate.Struct(req); err != nil {
		return apperrors.BadRequest(message, err)
	}
	return nil
}

// decodeBody reads a JSON object into req. A missing body, or one that
// decodes to an empty or zero value, is reported as "No data provided".
// Any other decoding fault is internal.
func decodeBody(body io.Reader, req any) error {
	if body == nil {
		return apperrors.BadRequest(msgNoData, nil)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.TooLarge("Request body too large")
		}
		return apperrors.Internal(err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return apperrors.BadRequest(msgNoData, nil)
	}

	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return apperrors.Internal(err)
	}
	if isEmptyValue(probe) {
		return apperrors.BadRequest(msgNoData, nil)
	}

	if err := json.Unmarshal(raw, req); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case float64:
		return val == 0
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

func respond(c *gin.Context, result emailsvc.Result, message string) {
	if result.Success {
		httputil.RespondSent(c, message, result.MessageID)
		return
	}
	httputil.RespondFailed(c, result.Error)
}
