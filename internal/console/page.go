package console

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/RubachokBoss/course-admin/internal/coordinator"
	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

type navItem struct {
	Section string
	Label   string
	Active  bool
}

type sectionView struct {
	Name        string
	Title       string
	Table       *view.Table
	Filters     *view.FilterPanel
	Evaluations bool
}

type formView struct {
	view.Form
	Action string
	// AutoAction is set on the new-evaluation form, which can also grade automatically.
	AutoAction string
}

type confirmView struct {
	Prompt string
	Action string
}

type importView struct {
	Report *models.ImportReport
}

type page struct {
	Title   string
	Nav     []navItem
	Section *sectionView
	Loading bool
	Form    *formView
	Detail  *view.Detail
	Confirm *confirmView
	Import  *importView
	Toasts  []view.Toast
}

// dialog is what a single response shows on top of the screen's own dialog.
type dialog struct {
	confirm *confirmView
	imports *importView
}

type tableView struct {
	Section string
	Table   *view.Table
}

var funcs = template.FuncMap{
	"tableOf":  func(section string, t *view.Table) tableView { return tableView{Section: section, Table: t} },
	"colspan":  func(t *view.Table) int { return len(t.Columns) + 1 },
	"lines":    func(s string) []string { return strings.Split(s, "\n") },
	"isSelect": func(f view.Field) bool { return f.Type == view.FieldSelect || f.Type == view.FieldMultiSelect },
}

func (h *Handler) buildPage(d dialog) page {
	active := h.screen.Active()

	p := page{
		Title:   h.cfg.Title,
		Loading: h.screen.Loading(),
		Confirm: d.confirm,
		Import:  d.imports,
	}
	for _, item := range h.nav {
		item.Active = item.Section == active
		p.Nav = append(p.Nav, item)
	}

	if tpl, ok := h.screen.Template(active); ok {
		s := &sectionView{
			Name:        tpl.Section,
			Title:       tpl.Title,
			Evaluations: tpl.Section == coordinator.SectionEvaluations,
		}
		for _, id := range tpl.Regions {
			if t, ok := h.screen.Table(id); ok {
				s.Table = &t
			}
			if f, ok := h.screen.Filters(id); ok {
				s.Filters = &f
			}
		}
		p.Section = s
	}

	// одно модальное окно за раз: подтверждение и импорт важнее формы
	if d.confirm == nil && d.imports == nil {
		if f, ok := h.screen.Form(); ok {
			p.Form = newFormView(f)
		} else if detail, ok := h.screen.Detail(); ok {
			p.Detail = &detail
		}
	}

	p.Toasts = h.screen.DrainToasts()
	return p
}

func newFormView(f view.Form) *formView {
	fv := &formView{Form: f, Action: "/sections/" + f.Section}
	if f.EntityID > 0 {
		fv.Action = fmt.Sprintf("/sections/%s/%d", f.Section, f.EntityID)
	}
	if f.Section == coordinator.SectionEvaluations && f.EntityID == 0 {
		fv.AutoAction = "/sections/evaluations/auto"
	}
	return fv
}

// render writes the whole layout, or only the content block for htmx requests.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, d dialog) {
	name := "layout"
	if r.Header.Get("HX-Request") == "true" {
		name = "content"
	}

	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, h.buildPage(d)); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, "Error al mostrar el panel", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
