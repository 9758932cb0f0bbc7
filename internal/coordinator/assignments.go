package coordinator

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

const dueSoonWindow = 24 * time.Hour

type Assignments struct {
	*crud[models.Assignment]
}

func NewAssignments(shared Shared) *Assignments {
	a := &Assignments{}
	a.crud = newCRUD(definition[models.Assignment]{
		section:   SectionAssignments,
		title:     "Asignaciones",
		singular:  "asignación",
		plural:    "asignaciones",
		columns:   []string{"ID", "Título", "Descripción", "Clase", "Inicio", "Vence", "Estado"},
		emptyText: "No hay asignaciones para mostrar",
		messages: messages{
			created: "Asignación creada exitosamente",
			updated: "Asignación actualizada exitosamente",
			deleted: "Asignación eliminada exitosamente",
			confirm: "¿Estás seguro de que quieres eliminar esta asignación?\n\nEsta acción no se puede deshacer.",
		},
		row: func(item models.Assignment) []view.Cell {
			return a.row(item)
		},
		detail: func(_ context.Context, item models.Assignment) view.Detail {
			return a.detail(item)
		},
		form: func(ctx context.Context, item *models.Assignment) (view.Form, error) {
			return a.form(ctx, item)
		},
		decode: func(values url.Values, item *models.Assignment) any {
			req := models.AssignmentRequest{
				ClassID:     formInt(values, "classId"),
				Title:       formString(values, "title"),
				Description: formString(values, "description"),
				DueDate:     formDate(values, "dueDate"),
			}
			// дата начала ставится при создании и дальше не меняется
			if item != nil && item.StartDate.Valid() {
				req.StartDate = item.StartDate
			} else {
				req.StartDate = models.NewBackendTime(a.now())
			}
			return req
		},
		deletePrompt: func(item models.Assignment) string {
			return fmt.Sprintf("¿Estás seguro de que quieres eliminar la asignación \"%s\"?\n\nEsta acción no se puede deshacer.", item.Title)
		},
	}, shared.API.Assignments(), shared)
	return a
}

// AssignmentStatus is the due-date badge of an assignment at now.
func AssignmentStatus(due models.BackendTime, now time.Time) (label, badge string) {
	switch {
	case !due.Valid():
		return "Sin fecha límite", "bg-secondary"
	case due.Before(now):
		return "Vencida", "bg-danger"
	case due.Sub(now) < dueSoonWindow:
		return "Próxima a vencer", "bg-warning"
	default:
		return "Activa", "bg-success"
	}
}

func (a *Assignments) row(item models.Assignment) []view.Cell {
	label, badge := AssignmentStatus(item.DueDate, a.now())
	return []view.Cell{
		{Text: idString(item.ID)},
		{Text: item.Title},
		{Text: models.TruncateText(item.Description, 100), Title: item.Description},
		{Text: models.OrDefault(item.ClassName, "Sin clase")},
		{Text: models.FormatDateTime(item.StartDate)},
		{Text: models.FormatDateTime(item.DueDate)},
		{Text: label, Badge: badge},
	}
}

func (a *Assignments) detail(item models.Assignment) view.Detail {
	label, _ := AssignmentStatus(item.DueDate, a.now())
	return view.Detail{
		Section: SectionAssignments,
		Title:   "Detalles de la asignación",
		Items: []view.DetailItem{
			{Label: "ID", Value: idString(item.ID)},
			{Label: "Título", Value: item.Title},
			{Label: "Descripción", Value: models.OrDefault(item.Description, "Sin descripción")},
			{Label: "Clase", Value: models.OrDefault(item.ClassName, "Sin clase")},
			{Label: "Fecha de inicio", Value: models.FormatDateTime(item.StartDate)},
			{Label: "Fecha límite", Value: models.FormatDateTime(item.DueDate)},
			{Label: "Estado", Value: label},
		},
	}
}

func (a *Assignments) form(ctx context.Context, item *models.Assignment) (view.Form, error) {
	classes, err := references(ctx, a.shared, SectionClasses, a.shared.API.Classes())
	if err != nil {
		return view.Form{}, err
	}

	form := view.Form{
		ID:          "assignment-form",
		Section:     SectionAssignments,
		Title:       "Nueva asignación",
		SubmitLabel: "Crear",
		Fields: []view.Field{
			{Name: "classId", Label: "Clase", Type: view.FieldSelect, Required: true, Options: options(classes)},
			{Name: "title", Label: "Título", Type: view.FieldText, Required: true},
			{Name: "description", Label: "Descripción", Type: view.FieldTextArea, Required: true},
			{Name: "dueDate", Label: "Fecha límite", Type: view.FieldDateTime, Required: true},
		},
	}
	if item == nil {
		return form, nil
	}

	form.Title = "Editar asignación"
	form.SubmitLabel = "Guardar cambios"
	form.EntityID = item.ID
	if item.ClassID > 0 {
		form.Fields[0].Value = idString(item.ClassID)
	}
	form.Fields[1].Value = item.Title
	form.Fields[2].Value = item.Description
	form.Fields[3].Value = dateInput(item.DueDate)
	return form, nil
}
