package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/ports"
)

const (
	msgResetLinkSent   = "If this email exists, the system will automatically send a reset link."
	msgResetLinkFailed = "Unable to send request"
	msgPasswordReset   = "Password reset successfully"
	msgPasswordFailed  = "Unable to set a new password"
)

// PasswordHandler backs the forgot-password and reset-password pages.
type PasswordHandler struct {
	passwords ports.PasswordGateway
	log       zerolog.Logger
}

func NewPasswordHandler(passwords ports.PasswordGateway, log zerolog.Logger) *PasswordHandler {
	return &PasswordHandler{passwords: passwords, log: log}
}

type forgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Confirm  string `json:"confirm"  validate:"required,eqfield=Password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Forgot requests a reset link for an email address.
//
// @Summary      Request password reset
// @Tags         password
// @Accept       json
// @Produce      json
// @Param        body  body      forgotRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/password/forgot [post]
func (h *PasswordHandler) Forgot(c echo.Context) error {
	var req forgotRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.passwords.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		h.log.Info().Err(err).Msg("password reset request failed")
		return echo.NewHTTPError(statusOf(err), domain.MessageOf(err, msgResetLinkFailed))
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msgResetLinkSent})
}

// Reset sets a new password with the token from the reset link.
//
// @Summary      Reset password
// @Tags         password
// @Accept       json
// @Produce      json
// @Param        body  body      resetRequest  true  "Token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/password/reset [post]
func (h *PasswordHandler) Reset(c echo.Context) error {
	var req resetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.passwords.ResetPassword(c.Request().Context(), req.Token, req.Password)
	if err != nil {
		h.log.Info().Err(err).Msg("password reset failed")
		return echo.NewHTTPError(statusOf(err), domain.MessageOf(err, msgPasswordFailed))
	}
	if msg == "" {
		msg = msgPasswordReset
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// statusOf keeps client errors of the EDI API as they are and reports
// everything else as a bad gateway.
func statusOf(err error) int {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) && sc.StatusCode() >= 400 && sc.StatusCode() < 500 {
		return sc.StatusCode()
	}
	return http.StatusBadGateway
}
