// Package web renders the HTML shell of the portal pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/prospira/edi-portal/internal/core/access"
	"github.com/prospira/edi-portal/internal/core/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names known to the renderer.
const (
	PageLogin          = "login"
	PageForgotPassword = "forgot-password"
	PageResetPassword  = "reset-password"
	PageApp            = "app"
	PageLoading        = "loading"
	PageNotFound       = "not-found"
)

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// Page is the data every template receives.
type Page struct {
	Lang       string
	Title      string
	AutoReload bool
	Notices    []domain.Notice

	// Login and password pages.
	CodeSlots  []int
	ResetToken string

	// Guarded pages.
	User       *domain.User
	Initials   string
	Menu       []access.NavItem
	Screen     string
	Number     string
	CanConfirm bool
}
