package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prospira/edi-portal/internal/api/cookies"
	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/ports"
)

// NoticeHandler hands out the one-time notices queued for the browser.
type NoticeHandler struct {
	notices ports.NoticeStore
	cookies *cookies.Manager
}

func NewNoticeHandler(notices ports.NoticeStore, ck *cookies.Manager) *NoticeHandler {
	return &NoticeHandler{notices: notices, cookies: ck}
}

type noticesResponse struct {
	Notices []domain.Notice `json:"notices"`
}

// Pop returns and forgets the pending notices.
//
// @Summary      Pending notices
// @Tags         notices
// @Produce      json
// @Success      200  {object}  noticesResponse
// @Router       /api/notices [get]
func (h *NoticeHandler) Pop(c echo.Context) error {
	notices, err := h.notices.Pop(c.Request().Context(), h.cookies.BrowserID(c))
	if err != nil {
		return err
	}
	if notices == nil {
		notices = []domain.Notice{}
	}
	return c.JSON(http.StatusOK, noticesResponse{Notices: notices})
}
