package console

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RubachokBoss/course-admin/internal/coordinator"
	"github.com/RubachokBoss/course-admin/internal/panel"
	"github.com/RubachokBoss/course-admin/internal/view"
)

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if h.panel.Current() == "" {
		h.ensureSection(r.Context(), coordinator.Sections[0])
	}
	h.render(w, r, dialog{})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.panel.RefreshAll(r.Context()); err != nil {
		h.logger.Debug().Err(err).Msg("Refresh failed")
	}
	h.render(w, r, dialog{})
}

func (h *Handler) CloseDialog(w http.ResponseWriter, r *http.Request) {
	h.screen.CloseDialog()
	h.render(w, r, dialog{})
}

func (h *Handler) ShowSection(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	h.screen.CloseDialog()
	if err := h.panel.ShowSection(r.Context(), section); err != nil {
		if errors.Is(err, panel.ErrUnknownSection) {
			http.NotFound(w, r)
			return
		}
		h.logger.Debug().Err(err).Str("section", section).Msg("Section load failed")
	}
	h.render(w, r, dialog{})
}

func (h *Handler) NewForm(w http.ResponseWriter, r *http.Request) {
	c, ok := h.component(w, r)
	if !ok {
		return
	}
	if err := c.ShowCreateModal(r.Context()); err != nil {
		h.logger.Debug().Err(err).Str("section", c.Name()).Msg("Create form unavailable")
	}
	h.render(w, r, dialog{})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := h.component(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulario inválido", http.StatusBadRequest)
		return
	}
	if err := c.SubmitCreate(r.Context(), r.PostForm); err != nil {
		h.logger.Debug().Err(err).Str("section", c.Name()).Msg("Create rejected")
	}
	h.render(w, r, dialog{})
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	c, ok := h.component(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := c.Edit(r.Context(), id); err != nil {
		h.logger.Debug().Err(err).Str("section", c.Name()).Int64("id", id).Msg("Edit form unavailable")
	}
	h.render(w, r, dialog{})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.component(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulario inválido", http.StatusBadRequest)
		return
	}
	if err := c.SubmitEdit(r.Context(), id, r.PostForm); err != nil {
		h.logger.Debug().Err(err).Str("section", c.Name()).Int64("id", id).Msg("Update rejected")
	}
	h.render(w, r, dialog{})
}

// Delete asks for confirmation first; the confirmation dialog posts back with confirm=yes.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.component(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	confirmed := r.PostFormValue("confirm") == "yes"
	ctx := view.WithConfirmation(r.Context(), confirmed)
	if err := c.Delete(ctx, id); err != nil {
		h.logger.Debug().Err(err).Str("section", c.Name()).Int64("id", id).Msg("Delete failed")
	}

	var d dialog
	if !confirmed {
		if prompt := h.screen.LastPrompt(); prompt != "" {
			d.confirm = &confirmView{Prompt: prompt, Action: r.URL.Path}
		}
	}
	h.render(w, r, d)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	c, ok := h.component(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := c.View(r.Context(), id); err != nil {
		h.logger.Debug().Err(err).Str("section", c.Name()).Int64("id", id).Msg("Detail unavailable")
	}
	h.render(w, r, dialog{})
}
