package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/api/cookies"
	"github.com/prospira/edi-portal/internal/core/access"
	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/login"
	"github.com/prospira/edi-portal/internal/core/ports"
)

// LoginHandler exposes the two-step login to the login page.
type LoginHandler struct {
	registry    *login.Registry
	cookies     *cookies.Manager
	notices     ports.NoticeStore
	defaultLang string
	log         zerolog.Logger
}

func NewLoginHandler(registry *login.Registry, ck *cookies.Manager, notices ports.NoticeStore, defaultLang string, log zerolog.Logger) *LoginHandler {
	return &LoginHandler{
		registry:    registry,
		cookies:     ck,
		notices:     notices,
		defaultLang: defaultLang,
		log:         log,
	}
}

type startRequest struct {
	Category   string `json:"category"   validate:"required,oneof=vendor employee"`
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type codeRequest struct {
	Index int    `json:"index"`
	Value string `json:"value" validate:"max=64"`
}

type keyRequest struct {
	Index int    `json:"index"`
	Key   string `json:"key" validate:"required"`
}

type loginResponse struct {
	login.View
	Message   string `json:"message,omitempty"`
	Submitted bool   `json:"submitted,omitempty"`
	// Redirect is set once the user is logged in.
	Redirect string `json:"redirect,omitempty"`
}

func (h *LoginHandler) lang(c echo.Context) string {
	if l := strings.TrimSpace(c.QueryParam("lang")); l != "" {
		return l
	}
	return h.defaultLang
}

// open returns the challenge of the browser, starting one when needed.
func (h *LoginHandler) open(c echo.Context) (string, *login.Challenge) {
	prev, _ := h.cookies.ChallengeID(c)
	id, ch := h.registry.Open(prev)
	if id != prev {
		h.cookies.SetChallengeID(c, id)
	}
	return id, ch
}

// current returns the challenge of the browser or ErrChallengeNotFound.
func (h *LoginHandler) current(c echo.Context) (string, *login.Challenge, error) {
	id, ok := h.cookies.ChallengeID(c)
	if !ok {
		return "", nil, domain.ErrChallengeNotFound
	}
	ch, err := h.registry.Get(id)
	if err != nil {
		return "", nil, err
	}
	return id, ch, nil
}

// respond finishes a login when out carries a token.
func (h *LoginHandler) respond(c echo.Context, id string, ch *login.Challenge, out login.Outcome) error {
	resp := loginResponse{View: ch.View(), Message: out.Message, Submitted: out.Submitted}
	if out.Token != "" {
		h.cookies.SetToken(c, out.Token)
		h.cookies.ClearChallengeID(c)
		h.registry.Remove(id)

		notice := domain.Notice{Kind: domain.NoticeSuccess, Message: out.Message}
		if err := h.notices.Push(c.Request().Context(), h.cookies.BrowserID(c), notice); err != nil {
			h.log.Error().Err(err).Msg("failed to queue login notice")
		}
		resp.Redirect = "/" + h.lang(c) + "/" + access.HomePath
	}
	return c.JSON(http.StatusOK, resp)
}

// State returns the login challenge of the browser.
//
// @Summary      Login state
// @Tags         login
// @Produce      json
// @Success      200  {object}  loginResponse
// @Router       /api/login [get]
func (h *LoginHandler) State(c echo.Context) error {
	_, ch := h.open(c)
	return c.JSON(http.StatusOK, loginResponse{View: ch.View()})
}

// Start submits the credentials.
//
// @Summary      Start login
// @Tags         login
// @Accept       json
// @Produce      json
// @Param        body  body      startRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/login/start [post]
func (h *LoginHandler) Start(c echo.Context) error {
	var req startRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := domain.ParseLoginCategory(req.Category)
	if err != nil {
		return err
	}

	id, ch := h.open(c)
	out, err := ch.Start(c.Request().Context(), category, req.Identifier, req.Password)
	if err != nil {
		return err
	}
	return h.respond(c, id, ch, out)
}

// Code applies typed or pasted digits; completing the code verifies it.
//
// @Summary      Enter code digits
// @Tags         login
// @Accept       json
// @Produce      json
// @Param        body  body      codeRequest  true  "Slot input"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/login/code [post]
func (h *LoginHandler) Code(c echo.Context) error {
	var req codeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	id, ch, err := h.current(c)
	if err != nil {
		return err
	}

	out, err := ch.EnterCode(c.Request().Context(), req.Index, req.Value)
	if err != nil {
		return err
	}
	return h.respond(c, id, ch, out)
}

// Key applies a navigation key in a code slot.
//
// @Summary      Code slot key
// @Tags         login
// @Accept       json
// @Produce      json
// @Param        body  body      keyRequest  true  "Key press"
// @Success      200   {object}  loginResponse
// @Router       /api/login/key [post]
func (h *LoginHandler) Key(c echo.Context) error {
	var req keyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	_, ch, err := h.current(c)
	if err != nil {
		return err
	}

	if err := ch.Key(req.Index, req.Key); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{View: ch.View()})
}

// Verify submits the entered code.
//
// @Summary      Verify code
// @Tags         login
// @Produce      json
// @Success      200  {object}  loginResponse
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/login/verify [post]
func (h *LoginHandler) Verify(c echo.Context) error {
	id, ch, err := h.current(c)
	if err != nil {
		return err
	}

	out, err := ch.Verify(c.Request().Context())
	if err != nil {
		return err
	}
	return h.respond(c, id, ch, out)
}

// Resend asks for a new code once the cooldown is over.
//
// @Summary      Resend code
// @Tags         login
// @Produce      json
// @Success      200  {object}  loginResponse
// @Failure      429  {object}  map[string]string
// @Router       /api/login/resend [post]
func (h *LoginHandler) Resend(c echo.Context) error {
	id, ch, err := h.current(c)
	if err != nil {
		return err
	}

	out, err := ch.Resend(c.Request().Context())
	if err != nil {
		return err
	}
	return h.respond(c, id, ch, out)
}

// Back returns to the credentials step.
//
// @Summary      Back to credentials
// @Tags         login
// @Produce      json
// @Success      200  {object}  loginResponse
// @Router       /api/login/back [post]
func (h *LoginHandler) Back(c echo.Context) error {
	_, ch, err := h.current(c)
	if err != nil {
		return err
	}

	ch.Back()
	return c.JSON(http.StatusOK, loginResponse{View: ch.View()})
}
