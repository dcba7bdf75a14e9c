package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prospira/edi-portal/internal/api/cookies"
)

// Forwarder sends a request to the EDI API with a bearer token.
type Forwarder interface {
	Forward(w http.ResponseWriter, r *http.Request, token string)
}

// ProxyHandler relays document-screen calls to the EDI API.
type ProxyHandler struct {
	proxy   Forwarder
	cookies *cookies.Manager
}

func NewProxyHandler(proxy Forwarder, ck *cookies.Manager) *ProxyHandler {
	return &ProxyHandler{proxy: proxy, cookies: ck}
}

// Forward relays the request with the session token of the browser.
//
// @Summary      EDI API proxy
// @Description  Forwards /api/edi/<path> to the EDI API /api/<path> with the session bearer token.
// @Tags         proxy
// @Router       /api/edi/{path} [get]
func (h *ProxyHandler) Forward(c echo.Context) error {
	token, _ := h.cookies.ReadToken(c)
	h.proxy.Forward(c.Response(), c.Request(), token)
	return nil
}
