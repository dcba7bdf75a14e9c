package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/api/cookies"
	"github.com/prospira/edi-portal/internal/api/middleware"
	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/ports"
)

// NotificationHandler feeds the unread-documents badge of the top bar.
type NotificationHandler struct {
	summaries   ports.SummaryFetcher
	cookies     *cookies.Manager
	wait        time.Duration
	defaultLang string
	log         zerolog.Logger
}

func NewNotificationHandler(summaries ports.SummaryFetcher, ck *cookies.Manager, wait time.Duration, defaultLang string, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		summaries:   summaries,
		cookies:     ck,
		wait:        wait,
		defaultLang: defaultLang,
		log:         log,
	}
}

type notificationItem struct {
	Type      string    `json:"type"`
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Link      string    `json:"link"`
}

type notificationsResponse struct {
	Items       []notificationItem `json:"items"`
	UnreadCount int                `json:"unread_count"`
}

// List returns the unread documents of the user's vendor group. Failures of
// the EDI API yield an empty list.
//
// @Summary      Unread documents
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  notificationsResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	store, err := middleware.StoreFrom(c)
	if err != nil {
		return err
	}
	middleware.Refresh(c, store, h.wait)

	u := store.User()
	if u == nil {
		return domain.ErrUnauthenticated
	}

	resp := notificationsResponse{Items: []notificationItem{}}
	if u.Group == "" {
		return c.JSON(http.StatusOK, resp)
	}

	token, _ := h.cookies.ReadToken(c)
	summary, err := h.summaries.FlatSummary(c.Request().Context(), token, u.Group)
	if err != nil {
		h.log.Warn().Err(err).Str("vendor_code", u.Group).Msg("fetch notifications failed")
		return c.JSON(http.StatusOK, resp)
	}

	lang := c.QueryParam("lang")
	if lang == "" {
		lang = h.defaultLang
	}
	for _, s := range summary {
		docType, number := s.Document()
		if docType == "" {
			continue
		}
		resp.Items = append(resp.Items, notificationItem{
			Type:      docType,
			Number:    number,
			Status:    s.Status(),
			CreatedAt: s.CreatedAt,
			Link:      domain.DetailPath(lang, docType, number),
		})
	}
	resp.UnreadCount = len(resp.Items)
	return c.JSON(http.StatusOK, resp)
}
