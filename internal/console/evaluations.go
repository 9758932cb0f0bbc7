package console

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/RubachokBoss/course-admin/internal/coordinator"
)

func (h *Handler) evaluations(ctx context.Context) *coordinator.Evaluations {
	h.ensureSection(ctx, coordinator.SectionEvaluations)
	return h.panel.Evaluations()
}

func (h *Handler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	e := h.evaluations(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulario inválido", http.StatusBadRequest)
		return
	}
	for _, name := range coordinator.FilterNames {
		if err := e.SetFilter(name, r.PostFormValue(name)); err != nil {
			h.logger.Warn().Err(err).Str("filter", name).Msg("Filter rejected")
		}
	}
	e.ApplyFilters()
	h.render(w, r, dialog{})
}

func (h *Handler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	h.evaluations(r.Context()).ClearAllFilters()
	h.render(w, r, dialog{})
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", "text/csv; charset=utf-8", h.evaluations(r.Context()).ExportCSV)
}

func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", h.evaluations(r.Context()).ExportXLSX)
}

// DownloadAll exports every evaluation on the backend, ignoring the filters.
func (h *Handler) DownloadAll(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", "text/csv; charset=utf-8", h.evaluations(r.Context()).DownloadAll)
}

// export buffers the file so that a failure can still be shown as a page.
func (h *Handler) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := write(r.Context(), &buf); err != nil {
		h.logger.Debug().Err(err).Str("format", ext).Msg("Export failed")
		h.render(w, r, dialog{})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+coordinator.ExportFileName(ext, h.now())+`"`)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *Handler) AutoEvaluate(w http.ResponseWriter, r *http.Request) {
	e := h.evaluations(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulario inválido", http.StatusBadRequest)
		return
	}
	if err := e.AutoEvaluate(r.Context(), formID(r, "submissionId"), formID(r, "evaluatorId")); err != nil {
		h.logger.Debug().Err(err).Msg("Automatic evaluation failed")
	}
	h.render(w, r, dialog{})
}
