// Package console serves the administration panel over HTTP. Every request drives
// the panel and then renders the current state of the screen, as a full page or as
// an htmx partial.
package console

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/course-admin/internal/coordinator"
	"github.com/RubachokBoss/course-admin/internal/panel"
	"github.com/RubachokBoss/course-admin/internal/view"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Config struct {
	Title         string
	MaxUploadSize int64
}

type Handler struct {
	router *chi.Mux
	panel  *panel.Panel
	screen *view.Screen
	pages  *template.Template
	nav    []navItem
	cfg    Config
	logger zerolog.Logger
	now    func() time.Time
}

func NewHandler(p *panel.Panel, screen *view.Screen, cfg Config, logger zerolog.Logger) (*Handler, error) {
	pages, err := template.New("console").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = 10 << 20
	}

	h := &Handler{
		router: chi.NewRouter(),
		panel:  p,
		screen: screen,
		pages:  pages,
		cfg:    cfg,
		logger: logger.With().Str("component", "console").Logger(),
		now:    time.Now,
	}

	for _, section := range coordinator.Sections {
		c, err := p.Component(section)
		if err != nil {
			return nil, err
		}
		h.nav = append(h.nav, navItem{Section: section, Label: c.Template().Title})
	}

	h.setupRoutes()
	return h, nil
}

func (h *Handler) setupRoutes() {
	// Health check
	h.router.Get("/health", h.HealthCheck)
	h.router.Get("/ready", h.ReadyCheck)
	h.router.Get("/live", h.LiveCheck)
	h.router.Handle("/metrics", promhttp.Handler())

	h.router.Get("/", h.Index)
	h.router.Post("/refresh", h.Refresh)
	h.router.Post("/dialog/close", h.CloseDialog)
	h.router.Get("/import", h.ImportForm)
	h.router.Post("/import", h.Import)

	h.router.Route("/sections", func(r chi.Router) {
		// статические пути evaluations имеют приоритет над {section}/{id}
		r.Post("/evaluations/filters", h.ApplyFilters)
		r.Post("/evaluations/filters/clear", h.ClearFilters)
		r.Get("/evaluations/export.csv", h.ExportCSV)
		r.Get("/evaluations/export.xlsx", h.ExportXLSX)
		r.Get("/evaluations/download", h.DownloadAll)
		r.Post("/evaluations/auto", h.AutoEvaluate)

		r.Get("/{section}", h.ShowSection)
		r.Post("/{section}", h.Create)
		r.Get("/{section}/new", h.NewForm)
		r.Get("/{section}/{id}", h.Detail)
		r.Post("/{section}/{id}", h.Update)
		r.Get("/{section}/{id}/edit", h.EditForm)
		r.Post("/{section}/{id}/delete", h.Delete)
	})
}

func (h *Handler) GetRouter() *chi.Mux {
	return h.router
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "course-admin",
		"version":   "1.0.0",
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":          "ready",
		"timestamp":       time.Now().UTC(),
		"current_section": h.panel.Current(),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) LiveCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

// ensureSection makes section the visible one, loading it if it was never shown.
func (h *Handler) ensureSection(ctx context.Context, section string) {
	if h.screen.Active() == section && h.screen.Mounted(section) {
		return
	}
	if err := h.panel.ShowSection(ctx, section); err != nil {
		// ошибка уже показана оператору
		h.logger.Debug().Err(err).Str("section", section).Msg("Section load failed")
	}
}

// component resolves {section}, answering 404 for unknown names.
func (h *Handler) component(w http.ResponseWriter, r *http.Request) (coordinator.Component, bool) {
	section := chi.URLParam(r, "section")
	c, err := h.panel.Component(section)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	h.ensureSection(r.Context(), section)
	return c, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func formID(r *http.Request, key string) int64 {
	id, err := strconv.ParseInt(r.PostFormValue(key), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}
