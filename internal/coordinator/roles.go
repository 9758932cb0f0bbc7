package coordinator

import (
	"context"
	"net/url"

	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

type Roles struct {
	*crud[models.Role]
}

func NewRoles(shared Shared) *Roles {
	return &Roles{crud: newCRUD(definition[models.Role]{
		section:   SectionRoles,
		title:     "Roles",
		singular:  "rol",
		plural:    "roles",
		columns:   []string{"ID", "Nombre"},
		emptyText: "No hay roles para mostrar",
		messages: messages{
			created: "Rol creado exitosamente",
			updated: "Rol actualizado exitosamente",
			deleted: "Rol eliminado exitosamente",
			confirm: "¿Está seguro de que desea eliminar este rol?",
		},
		row: func(r models.Role) []view.Cell {
			return []view.Cell{
				{Text: idString(r.ID)},
				{Text: r.Name, Badge: "bg-secondary"},
			}
		},
		detail: func(_ context.Context, r models.Role) view.Detail {
			return view.Detail{
				Section: SectionRoles,
				Title:   "Detalles del rol",
				Items: []view.DetailItem{
					{Label: "ID", Value: idString(r.ID)},
					{Label: "Nombre", Value: r.Name},
				},
			}
		},
		form: roleForm,
		decode: func(values url.Values, _ *models.Role) any {
			return models.RoleRequest{Name: formString(values, "name")}
		},
	}, shared.API.Roles(), shared)}
}

func roleForm(_ context.Context, item *models.Role) (view.Form, error) {
	form := view.Form{
		ID:          "role-form",
		Section:     SectionRoles,
		Title:       "Nuevo rol",
		SubmitLabel: "Crear",
		Fields: []view.Field{
			{Name: "name", Label: "Nombre", Type: view.FieldText, Required: true},
		},
	}
	if item != nil {
		form.Title = "Editar rol"
		form.SubmitLabel = "Guardar cambios"
		form.EntityID = item.ID
		form.Fields[0].Value = item.Name
	}
	return form, nil
}
