package coordinator

import (
	"context"
	"fmt"
	"net/url"

	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

var feedbackLabels = map[string]struct{ label, badge string }{
	"POSITIVE":   {"Positivo", "bg-success"},
	"NEGATIVE":   {"Negativo", "bg-danger"},
	"SUGGESTION": {"Sugerencia", "bg-warning"},
	"QUESTION":   {"Pregunta", "bg-info"},
	"GENERAL":    {"General", "bg-secondary"},
}

// FeedbackTypeLabel returns the display label and badge class of a feedback type.
func FeedbackTypeLabel(kind string) (label, badge string) {
	if l, ok := feedbackLabels[kind]; ok {
		return l.label, l.badge
	}
	return models.OrDefault(kind, models.NotAvailable), "bg-secondary"
}

type Feedback struct {
	*crud[models.Feedback]
}

func NewFeedback(shared Shared) *Feedback {
	f := &Feedback{}
	f.crud = newCRUD(definition[models.Feedback]{
		section:   SectionFeedback,
		title:     "Retroalimentación",
		singular:  "retroalimentación",
		plural:    "retroalimentaciones",
		columns:   []string{"ID", "Evaluación", "Tipo", "Contenido", "Fecha"},
		emptyText: "No hay retroalimentaciones registradas",
		messages: messages{
			created: "Retroalimentación creada exitosamente",
			updated: "Retroalimentación actualizada exitosamente",
			deleted: "Retroalimentación eliminada exitosamente",
			confirm: "¿Está seguro de que desea eliminar esta retroalimentación?",
		},
		row:    feedbackRow,
		detail: feedbackDetail,
		form: func(ctx context.Context, item *models.Feedback) (view.Form, error) {
			return f.form(ctx, item)
		},
		decode: func(values url.Values, item *models.Feedback) any {
			req := models.FeedbackRequest{
				EvaluationID: formInt(values, "evaluationId"),
				FeedbackType: formString(values, "feedbackType"),
				Content:      formString(values, "content"),
				Strengths:    formOptString(values, "strengths"),
				Improvements: formOptString(values, "improvements"),
				Comments:     formOptString(values, "comments"),
			}
			if item != nil && item.FeedbackDate.Valid() {
				req.FeedbackDate = item.FeedbackDate
			} else {
				req.FeedbackDate = models.NewBackendTime(f.now())
			}
			return req
		},
	}, shared.API.Feedbacks(), shared)
	return f
}

func feedbackEvaluation(item models.Feedback) string {
	if item.EvaluationID == 0 {
		return "Sin evaluación"
	}
	return fmt.Sprintf("%s - %s (Eval #%d)",
		models.OrDefault(item.TeamName, "Sin equipo"),
		models.OrDefault(item.EvaluatorName, "Sin evaluador"),
		item.EvaluationID)
}

func feedbackRow(item models.Feedback) []view.Cell {
	label, badge := FeedbackTypeLabel(item.FeedbackType)
	return []view.Cell{
		{Text: idString(item.ID)},
		{Text: feedbackEvaluation(item)},
		{Text: label, Badge: badge},
		{Text: models.TruncateText(item.Content, 100), Title: item.Content},
		{Text: models.FormatDate(item.FeedbackDate)},
	}
}

func feedbackDetail(_ context.Context, item models.Feedback) view.Detail {
	label, _ := FeedbackTypeLabel(item.FeedbackType)
	return view.Detail{
		Section: SectionFeedback,
		Title:   "Detalles de la retroalimentación",
		Items: []view.DetailItem{
			{Label: "ID", Value: idString(item.ID)},
			{Label: "Evaluación", Value: feedbackEvaluation(item)},
			{Label: "Tipo", Value: label},
			{Label: "Contenido", Value: item.Content},
			{Label: "Fortalezas", Value: models.OrDefault(item.Strengths, models.NotAvailable)},
			{Label: "Mejoras", Value: models.OrDefault(item.Improvements, models.NotAvailable)},
			{Label: "Comentarios", Value: models.OrDefault(item.Comments, models.NotAvailable)},
			{Label: "Fecha", Value: models.FormatDateTime(item.FeedbackDate)},
		},
	}
}

func (f *Feedback) form(ctx context.Context, item *models.Feedback) (view.Form, error) {
	evaluations, err := references(ctx, f.shared, SectionEvaluations, f.shared.API.Evaluations())
	if err != nil {
		return view.Form{}, err
	}

	evalOptions := make([]view.Option, 0, len(evaluations))
	for _, e := range evaluations {
		evalOptions = append(evalOptions, view.Option{
			Value: idString(e.ID),
			Label: fmt.Sprintf("%s - %s (Eval #%d)",
				models.OrDefault(e.TeamName, "Sin equipo"),
				models.OrDefault(e.EvaluatorName, "Sin evaluador"),
				e.ID),
		})
	}
	typeOptions := make([]view.Option, 0, len(models.FeedbackTypes))
	for _, kind := range models.FeedbackTypes {
		label, _ := FeedbackTypeLabel(kind)
		typeOptions = append(typeOptions, view.Option{Value: kind, Label: label})
	}

	form := view.Form{
		ID:          "feedback-form",
		Section:     SectionFeedback,
		Title:       "Nueva retroalimentación",
		SubmitLabel: "Crear",
		Fields: []view.Field{
			{Name: "evaluationId", Label: "Evaluación", Type: view.FieldSelect, Required: true, Options: evalOptions},
			{Name: "feedbackType", Label: "Tipo", Type: view.FieldSelect, Required: true, Options: typeOptions},
			{Name: "content", Label: "Contenido", Type: view.FieldTextArea, Required: true},
			{Name: "strengths", Label: "Fortalezas", Type: view.FieldTextArea},
			{Name: "improvements", Label: "Mejoras", Type: view.FieldTextArea},
			{Name: "comments", Label: "Comentarios", Type: view.FieldTextArea},
		},
	}
	if item == nil {
		return form, nil
	}

	form.Title = "Editar retroalimentación"
	form.SubmitLabel = "Guardar cambios"
	form.EntityID = item.ID
	form.Fields[0].Value = idString(item.EvaluationID)
	form.Fields[1].Value = item.FeedbackType
	form.Fields[2].Value = item.Content
	form.Fields[3].Value = item.Strengths
	form.Fields[4].Value = item.Improvements
	form.Fields[5].Value = item.Comments
	return form, nil
}
