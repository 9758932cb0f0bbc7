package coordinator

import (
	"context"
	"fmt"
	"net/url"

	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

type Teams struct {
	*crud[models.Team]
}

func NewTeams(shared Shared) *Teams {
	t := &Teams{}
	t.crud = newCRUD(definition[models.Team]{
		section:   SectionTeams,
		title:     "Equipos",
		singular:  "equipo",
		plural:    "equipos",
		columns:   []string{"ID", "Nombre", "Miembros"},
		emptyText: "No hay equipos para mostrar",
		messages: messages{
			created: "Equipo creado exitosamente",
			updated: "Equipo actualizado exitosamente",
			deleted: "Equipo eliminado exitosamente",
			confirm: "¿Estás seguro de que quieres eliminar este equipo?\n\nEsta acción no se puede deshacer.",
		},
		row: func(team models.Team) []view.Cell {
			return []view.Cell{
				{Text: idString(team.ID)},
				{Text: team.Name},
				{Text: joinOr(team.UserNames, "Sin miembros")},
			}
		},
		detail: func(_ context.Context, team models.Team) view.Detail {
			return view.Detail{
				Section: SectionTeams,
				Title:   "Detalles del equipo",
				Items: []view.DetailItem{
					{Label: "ID", Value: idString(team.ID)},
					{Label: "Nombre", Value: team.Name},
					{Label: "Miembros", Value: fmt.Sprintf("%d", len(team.UserIDs))},
				},
				Lists: map[string][]string{"Miembros": team.UserNames},
			}
		},
		form: func(ctx context.Context, item *models.Team) (view.Form, error) {
			return t.form(ctx, item)
		},
		decode: func(values url.Values, _ *models.Team) any {
			return models.TeamRequest{
				Name:    formString(values, "name"),
				UserIDs: formIDs(values, "userIds"),
			}
		},
		deletePrompt: func(team models.Team) string {
			return fmt.Sprintf("¿Estás seguro de que quieres eliminar el equipo \"%s\"?\n\nEsta acción no se puede deshacer.", team.Name)
		},
	}, shared.API.Teams(), shared)
	return t
}

func (t *Teams) form(ctx context.Context, item *models.Team) (view.Form, error) {
	users, err := references(ctx, t.shared, SectionUsers, t.shared.API.Users())
	if err != nil {
		return view.Form{}, err
	}

	form := view.Form{
		ID:          "team-form",
		Section:     SectionTeams,
		Title:       "Nuevo equipo",
		SubmitLabel: "Crear",
		Fields: []view.Field{
			{Name: "name", Label: "Nombre", Type: view.FieldText, Required: true},
			{Name: "userIds", Label: "Miembros", Type: view.FieldMultiSelect, Options: options(users)},
		},
	}
	if item != nil {
		form.Title = "Editar equipo"
		form.SubmitLabel = "Guardar cambios"
		form.EntityID = item.ID
		form.Fields[0].Value = item.Name
		form.Fields[1].Values = idStrings(item.UserIDs)
	}
	return form, nil
}
