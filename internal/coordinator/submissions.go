package coordinator

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

type Submissions struct {
	*crud[models.Submission]
}

func NewSubmissions(shared Shared) *Submissions {
	s := &Submissions{}
	s.crud = newCRUD(definition[models.Submission]{
		section:   SectionSubmissions,
		title:     "Entregas",
		singular:  "entrega",
		plural:    "entregas",
		columns:   []string{"ID", "Asignación", "Equipo", "Archivo", "Fecha de entrega"},
		emptyText: "No hay entregas para mostrar",
		messages: messages{
			created: "Entrega creada exitosamente",
			updated: "Entrega actualizada exitosamente",
			deleted: "Entrega eliminada exitosamente",
			confirm: "¿Estás seguro de que quieres eliminar esta entrega?\n\nEsta acción no se puede deshacer.",
		},
		row: func(item models.Submission) []view.Cell {
			return []view.Cell{
				{Text: idString(item.ID)},
				{Text: models.OrDefault(item.AssignmentTitle, "Sin asignación")},
				{Text: models.OrDefault(item.TeamName, "Sin equipo")},
				{Text: FileName(item.FileURL), Title: item.FileURL},
				{Text: models.FormatDateTime(item.SubmittedAt)},
			}
		},
		detail: func(_ context.Context, item models.Submission) view.Detail {
			return view.Detail{
				Section: SectionSubmissions,
				Title:   "Detalles de la entrega",
				Items: []view.DetailItem{
					{Label: "ID", Value: idString(item.ID)},
					{Label: "Asignación", Value: models.OrDefault(item.AssignmentTitle, "Sin asignación")},
					{Label: "Equipo", Value: models.OrDefault(item.TeamName, "Sin equipo")},
					{Label: "Clase", Value: models.OrDefault(item.ClassName, "Sin clase")},
					{Label: "Archivo", Value: models.OrDefault(item.FileURL, "Sin archivo")},
					{Label: "Fecha de entrega", Value: models.FormatDateTime(item.SubmittedAt)},
				},
			}
		},
		form: func(ctx context.Context, item *models.Submission) (view.Form, error) {
			return s.form(ctx, item)
		},
		decode: func(values url.Values, item *models.Submission) any {
			req := models.SubmissionRequest{
				AssignmentID: formInt(values, "assignmentId"),
				TeamID:       formInt(values, "teamId"),
				FileURL:      formString(values, "fileUrl"),
			}
			if item != nil && item.SubmittedAt.Valid() {
				req.SubmittedAt = item.SubmittedAt
			} else {
				req.SubmittedAt = models.NewBackendTime(s.now())
			}
			return req
		},
		deletePrompt: func(item models.Submission) string {
			return fmt.Sprintf("¿Estás seguro de que quieres eliminar la entrega \"%s\" del equipo \"%s\"?\n\nEsta acción no se puede deshacer.",
				models.OrDefault(item.AssignmentTitle, "Sin título"), models.OrDefault(item.TeamName, "Sin equipo"))
		},
	}, shared.API.Submissions(), shared)
	return s
}

// FileName is the last path segment of a file URL.
func FileName(fileURL string) string {
	fileURL = strings.TrimSpace(fileURL)
	if fileURL == "" {
		return "Sin archivo"
	}
	p := fileURL
	if u, err := url.Parse(fileURL); err == nil && u.Path != "" {
		p = u.Path
	}
	name := path.Base(strings.TrimRight(p, "/"))
	if name == "" || name == "." || name == "/" {
		return fileURL
	}
	return name
}

func (s *Submissions) form(ctx context.Context, item *models.Submission) (view.Form, error) {
	var (
		assignments []models.Assignment
		teams       []models.Team
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assignments, err = references(gctx, s.shared, SectionAssignments, s.shared.API.Assignments())
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = references(gctx, s.shared, SectionTeams, s.shared.API.Teams())
		return err
	})
	if err := g.Wait(); err != nil {
		return view.Form{}, err
	}

	form := view.Form{
		ID:          "submission-form",
		Section:     SectionSubmissions,
		Title:       "Nueva entrega",
		SubmitLabel: "Crear",
		Fields: []view.Field{
			{Name: "assignmentId", Label: "Asignación", Type: view.FieldSelect, Required: true, Options: options(assignments)},
			{Name: "teamId", Label: "Equipo", Type: view.FieldSelect, Required: true, Options: options(teams)},
			{Name: "fileUrl", Label: "URL del archivo", Type: view.FieldURL, Required: true,
				Help: "Enlace al repositorio o archivo entregado"},
		},
	}
	if item == nil {
		return form, nil
	}

	form.Title = "Editar entrega"
	form.SubmitLabel = "Guardar cambios"
	form.EntityID = item.ID
	form.Fields[0].Value = idString(item.AssignmentID)
	form.Fields[1].Value = idString(item.TeamID)
	form.Fields[2].Value = item.FileURL
	return form, nil
}
