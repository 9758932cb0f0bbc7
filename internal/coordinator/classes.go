package coordinator

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

type Classes struct {
	*crud[models.Class]
}

func NewClasses(shared Shared) *Classes {
	c := &Classes{}
	c.crud = newCRUD(definition[models.Class]{
		section:   SectionClasses,
		title:     "Clases",
		singular:  "clase",
		plural:    "clases",
		columns:   []string{"ID", "Nombre", "Semestre", "Profesor", "Equipos"},
		emptyText: "No hay clases para mostrar",
		messages: messages{
			created: "Clase creada exitosamente",
			updated: "Clase actualizada exitosamente",
			deleted: "Clase eliminada exitosamente",
			confirm: "¿Estás seguro de que deseas eliminar esta clase? Esta acción no se puede deshacer.",
		},
		row:    classRow,
		detail: classDetail,
		form: func(ctx context.Context, item *models.Class) (view.Form, error) {
			return c.form(ctx, item)
		},
		decode: func(values url.Values, _ *models.Class) any {
			return models.ClassRequest{
				Name:                  formString(values, "name"),
				Description:           formString(values, "description"),
				Semester:              formString(values, "semester"),
				ProfessorID:           formInt(values, "professorId"),
				LaboratoryProfessorID: formOptInt(values, "laboratoryProfessorId"),
				TeamIDs:               formIDs(values, "teamIds"),
			}
		},
	}, shared.API.Classes(), shared)
	return c
}

func classRow(c models.Class) []view.Cell {
	return []view.Cell{
		{Text: idString(c.ID)},
		{Text: c.Name, Title: models.OrDefault(c.Description, "Sin descripción")},
		{Text: models.OrDefault(c.Semester, "Sin semestre")},
		{Text: models.OrDefault(c.ProfessorName, models.NotAvailable)},
		{Text: joinOr(c.TeamNames, "Sin equipos")},
	}
}

func classDetail(_ context.Context, c models.Class) view.Detail {
	return view.Detail{
		Section: SectionClasses,
		Title:   "Detalles de la clase",
		Items: []view.DetailItem{
			{Label: "ID", Value: idString(c.ID)},
			{Label: "Nombre", Value: c.Name},
			{Label: "Descripción", Value: models.OrDefault(c.Description, "Sin descripción")},
			{Label: "Semestre", Value: models.OrDefault(c.Semester, "Sin semestre")},
			{Label: "Profesor", Value: models.OrDefault(c.ProfessorName, models.NotAvailable)},
			{Label: "Profesor de laboratorio", Value: models.OrDefault(c.LaboratoryProfessorName, models.NotAvailable)},
			{Label: "Creada", Value: models.FormatDateTime(c.CreatedAt)},
		},
		Lists: map[string][]string{"Equipos": c.TeamNames},
	}
}

func (c *Classes) form(ctx context.Context, item *models.Class) (view.Form, error) {
	var (
		users []models.User
		roles []models.Role
		teams []models.Team
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = references(gctx, c.shared, SectionUsers, c.shared.API.Users())
		return err
	})
	g.Go(func() error {
		var err error
		roles, err = references(gctx, c.shared, SectionRoles, c.shared.API.Roles())
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = references(gctx, c.shared, SectionTeams, c.shared.API.Teams())
		return err
	})
	if err := g.Wait(); err != nil {
		return view.Form{}, err
	}

	profs := options(professors(users, roles))
	form := view.Form{
		ID:          "class-form",
		Section:     SectionClasses,
		Title:       "Nueva clase",
		SubmitLabel: "Crear",
		Fields: []view.Field{
			{Name: "name", Label: "Nombre", Type: view.FieldText, Required: true},
			{Name: "description", Label: "Descripción", Type: view.FieldTextArea},
			{Name: "semester", Label: "Semestre", Type: view.FieldText, Help: "Ej: 2025-1"},
			{Name: "professorId", Label: "Profesor", Type: view.FieldSelect, Required: true, Options: profs},
			{Name: "laboratoryProfessorId", Label: "Profesor de laboratorio", Type: view.FieldSelect, Options: profs},
			{Name: "teamIds", Label: "Equipos", Type: view.FieldMultiSelect, Options: options(teams)},
		},
	}
	if item == nil {
		return form, nil
	}

	form.Title = "Editar clase"
	form.SubmitLabel = "Guardar cambios"
	form.EntityID = item.ID
	form.Fields[0].Value = item.Name
	form.Fields[1].Value = item.Description
	form.Fields[2].Value = item.Semester
	if item.ProfessorID > 0 {
		form.Fields[3].Value = idString(item.ProfessorID)
	}
	if item.LaboratoryProfessorID > 0 {
		form.Fields[4].Value = idString(item.LaboratoryProfessorID)
	}
	form.Fields[5].Values = idStrings(item.TeamIDs)
	return form, nil
}
