package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/prospira/edi-portal/internal/core/domain"
)

const tokenKey = "token"

// Handler serves the mock endpoints. Failures answer {"error": "..."} like
// the real EDI API.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type vendorLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type employeeLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type profileResponse struct {
	Result *domain.User `json:"result"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func (h *Handler) VendorStart(c echo.Context) error {
	var req vendorLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid payload"))
	}
	return h.start(c, domain.CategoryVendor, req.Email, req.Password)
}

func (h *Handler) EmployeeStart(c echo.Context) error {
	var req employeeLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid payload"))
	}
	return h.start(c, domain.CategoryEmployee, req.Username, req.Password)
}

func (h *Handler) start(c echo.Context, category domain.LoginCategory, identifier, password string) error {
	res, err := h.svc.StartLogin(c.Request().Context(), category, identifier, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, errorBody("Invalid email or password"))
		}
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) VendorVerify(c echo.Context) error {
	return h.verify(c, domain.CategoryVendor)
}

func (h *Handler) EmployeeVerify(c echo.Context) error {
	return h.verify(c, domain.CategoryEmployee)
}

func (h *Handler) verify(c echo.Context, category domain.LoginCategory) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid payload"))
	}
	res, err := h.svc.VerifyLogin(c.Request().Context(), category, req.Email, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrCodeRejected) {
			return c.JSON(http.StatusBadRequest, errorBody("Invalid or expired OTP"))
		}
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Profile(c echo.Context) error {
	token, _ := c.Get(tokenKey).(string)
	user, err := h.svc.Profile(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return c.JSON(http.StatusOK, profileResponse{})
		}
		return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
	}
	return c.JSON(http.StatusOK, profileResponse{Result: user})
}

func (h *Handler) FlatSummary(c echo.Context) error {
	vendorCode := c.QueryParam("vendorCode")
	if vendorCode == "" {
		return c.JSON(http.StatusBadRequest, errorBody("vendorCode is required"))
	}
	return c.JSON(http.StatusOK, h.svc.Summary(c.Request().Context(), vendorCode))
}

func (h *Handler) ForgotPassword(c echo.Context) error {
	var req forgotRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, errorBody("email is required"))
	}
	msg, err := h.svc.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid payload"))
	}
	msg, err := h.svc.ResetPassword(c.Request().Context(), req.Token, req.NewPassword)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, messageResponse{Message: msg})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, errorBody("Password must be at least 8 characters"))
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrAccountNotFound):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid or expired reset token"))
	default:
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
}

// Bearer requires an Authorization header and stores the raw token for
// the handler. The token itself is checked by the service.
func Bearer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, errorBody("missing authorization header"))
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return c.JSON(http.StatusUnauthorized, errorBody("invalid authorization header"))
			}

			c.Set(tokenKey, parts[1])
			return next(c)
		}
	}
}
