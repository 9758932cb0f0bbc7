package coordinator

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

type Users struct {
	*crud[models.User]
}

func NewUsers(shared Shared) *Users {
	u := &Users{}
	u.crud = newCRUD(definition[models.User]{
		section:   SectionUsers,
		title:     "Usuarios",
		singular:  "usuario",
		plural:    "usuarios",
		columns:   []string{"ID", "Nombre", "Email", "Rol", "Equipos"},
		emptyText: "No hay usuarios para mostrar",
		messages: messages{
			created: "Usuario creado exitosamente",
			updated: "Usuario actualizado exitosamente",
			deleted: "Usuario eliminado exitosamente",
			confirm: "¿Estás seguro de que quieres eliminar este usuario?\n\nEsta acción no se puede deshacer.",
		},
		row:    userRow,
		detail: userDetail,
		form: func(ctx context.Context, item *models.User) (view.Form, error) {
			return u.form(ctx, item)
		},
		decode: decodeUser,
		deletePrompt: func(item models.User) string {
			return fmt.Sprintf("¿Estás seguro de que quieres eliminar al usuario \"%s\"?\n\nEsta acción no se puede deshacer.", item.Name)
		},
	}, shared.API.Users(), shared)
	return u
}

func userRow(u models.User) []view.Cell {
	role := view.Cell{Text: models.OrDefault(u.RoleName, "Sin rol")}
	if u.RoleName != "" {
		role.Badge = "bg-primary"
	}
	return []view.Cell{
		{Text: idString(u.ID)},
		{Text: u.Name},
		{Text: models.OrDefault(u.Email, "Sin email")},
		role,
		{Text: joinOr(u.TeamNames, "Sin equipos")},
	}
}

func userDetail(_ context.Context, u models.User) view.Detail {
	return view.Detail{
		Section: SectionUsers,
		Title:   "Detalles del usuario",
		Items: []view.DetailItem{
			{Label: "ID", Value: idString(u.ID)},
			{Label: "Carnet", Value: models.OrDefault(u.CarnetID, models.NotAvailable)},
			{Label: "Nombre", Value: u.Name},
			{Label: "Email", Value: models.OrDefault(u.Email, "Sin email")},
			{Label: "Rol", Value: models.OrDefault(u.RoleName, "Sin rol")},
		},
		Lists: map[string][]string{"Equipos": u.TeamNames},
	}
}

func (u *Users) form(ctx context.Context, item *models.User) (view.Form, error) {
	var roles []models.Role
	var teams []models.Team

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = references(gctx, u.shared, SectionRoles, u.shared.API.Roles())
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = references(gctx, u.shared, SectionTeams, u.shared.API.Teams())
		return err
	})
	if err := g.Wait(); err != nil {
		return view.Form{}, err
	}

	form := view.Form{
		ID:          "user-form",
		Section:     SectionUsers,
		Title:       "Nuevo usuario",
		SubmitLabel: "Crear",
		Fields: []view.Field{
			{Name: "name", Label: "Nombre", Type: view.FieldText, Required: true},
			{Name: "email", Label: "Email", Type: view.FieldEmail},
			{Name: "roleId", Label: "Rol", Type: view.FieldSelect, Required: true, Options: options(roles)},
			{Name: "teamIds", Label: "Equipos", Type: view.FieldMultiSelect, Options: options(teams),
				Help: "Mantén presionado Ctrl para seleccionar varios equipos"},
		},
	}
	if item == nil {
		return form, nil
	}

	form.Title = "Editar usuario"
	form.SubmitLabel = "Guardar cambios"
	form.EntityID = item.ID
	form.Fields[0].Value = item.Name
	form.Fields[1].Value = item.Email
	if item.RoleID > 0 {
		form.Fields[2].Value = idString(item.RoleID)
	}
	form.Fields[3].Values = idStrings(item.TeamIDs)
	return form, nil
}

func decodeUser(values url.Values, item *models.User) any {
	req := models.UserRequest{
		Name:    formString(values, "name"),
		Email:   formOptString(values, "email"),
		RoleID:  formInt(values, "roleId"),
		TeamIDs: formIDs(values, "teamIds"),
	}
	if item != nil {
		req.CarnetID = item.CarnetID
	}
	return req
}
