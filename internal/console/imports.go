package console

import (
	"errors"
	"io"
	"net/http"

	"github.com/RubachokBoss/course-admin/internal/view"
)

func (h *Handler) ImportForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, dialog{imports: &importView{}})
}

// Import uploads a spreadsheet through the panel and shows the backend's report.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		message := "Error al importar: formulario inválido"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			message = "Error al importar: el archivo supera el tamaño permitido"
		}
		h.panel.Notify(message, view.SeverityError)
		h.render(w, r, dialog{imports: &importView{}})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.panel.Notify("Seleccione un archivo para importar", view.SeverityWarning)
		h.render(w, r, dialog{imports: &importView{}})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.panel.Notify("Error al importar: "+err.Error(), view.SeverityError)
		h.render(w, r, dialog{imports: &importView{}})
		return
	}

	report, err := h.panel.Import(r.Context(), header.Filename, content)
	if err != nil {
		h.logger.Debug().Err(err).Str("file", header.Filename).Msg("Import failed")
	}
	h.render(w, r, dialog{imports: &importView{Report: report}})
}
