package coordinator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

var ErrMissingSelection = errors.New("seleccione una entrega y un evaluador primero")

const filtersRegion = SectionEvaluations + "-filters"

var evaluationTypeLabels = map[string]string{
	models.EvaluationManual:    "Manual",
	models.EvaluationAutomatic: "Automática",
}

// Evaluations adds the filtered view, exports and automatic evaluation on top of the
// common CRUD flows.
type Evaluations struct {
	*crud[models.Evaluation]

	fmu      sync.Mutex
	filters  Filters
	filtered []models.Evaluation
	choices  filterChoices
}

func NewEvaluations(shared Shared) *Evaluations {
	e := &Evaluations{}
	e.crud = newCRUD(definition[models.Evaluation]{
		section:   SectionEvaluations,
		title:     "Evaluaciones",
		singular:  "evaluación",
		plural:    "evaluaciones",
		columns:   []string{"ID", "Entrega", "Puntuación", "Evaluador", "Tipo", "Fecha"},
		emptyText: "No hay evaluaciones registradas",
		messages: messages{
			created: "Evaluación creada exitosamente",
			updated: "Evaluación actualizada exitosamente",
			deleted: "Evaluación eliminada exitosamente",
			confirm: "¿Está seguro de que desea eliminar esta evaluación?",
		},
		row:    evaluationRow,
		detail: evaluationDetail,
		form: func(ctx context.Context, item *models.Evaluation) (view.Form, error) {
			return e.form(ctx, item)
		},
		decode: func(values url.Values, item *models.Evaluation) any {
			req := models.EvaluationRequest{
				SubmissionID:   formInt(values, "submissionId"),
				EvaluatorID:    formInt(values, "evaluatorId"),
				Score:          formFloat(values, "score"),
				EvaluationType: formString(values, "evaluationType"),
				Comments:       formOptString(values, "comments"),
				CriteriaJSON:   formString(values, "criteriaJson"),
			}
			if item != nil && item.Date().Valid() {
				req.EvaluationDate = item.Date()
			} else {
				req.EvaluationDate = models.NewBackendTime(e.now())
			}
			return req
		},
	}, shared.API.Evaluations(), shared)

	e.regions = []string{filtersRegion}
	e.visible = e.Filtered
	e.onLoaded = e.refreshFilters
	return e
}

func evaluationRow(item models.Evaluation) []view.Cell {
	typeLabel := evaluationTypeLabels[item.EvaluationType]
	badge := "bg-primary"
	if item.EvaluationType == models.EvaluationAutomatic {
		badge = "bg-info"
	}
	return []view.Cell{
		{Text: idString(item.ID)},
		{Text: item.DisplayName()},
		{Text: fmt.Sprintf("%s (%s)", models.FormatScore(item.Score), models.FormatPercentage(item.Score))},
		{Text: models.OrDefault(item.EvaluatorName, "Sin evaluador")},
		{Text: models.OrDefault(typeLabel, models.NotAvailable), Badge: badge},
		{Text: models.FormatDate(item.Date())},
	}
}

func evaluationDetail(_ context.Context, item models.Evaluation) view.Detail {
	d := view.Detail{
		Section: SectionEvaluations,
		Title:   "Detalles de la evaluación",
		Items: []view.DetailItem{
			{Label: "ID", Value: idString(item.ID)},
			{Label: "Entrega", Value: item.DisplayName()},
			{Label: "Clase", Value: models.OrDefault(item.ClassName, "Sin clase")},
			{Label: "Puntuación", Value: models.FormatScore(item.Score)},
			{Label: "Evaluador", Value: models.OrDefault(item.EvaluatorName, "Sin evaluador")},
			{Label: "Tipo", Value: models.OrDefault(evaluationTypeLabels[item.EvaluationType], models.NotAvailable)},
			{Label: "Fecha", Value: models.FormatDateTime(item.Date())},
			{Label: "Comentarios", Value: models.OrDefault(item.Comments, "Sin comentarios")},
		},
		Lists: map[string][]string{},
	}

	if analysis, ok := item.CommitAnalysis(); ok {
		late := "No"
		if analysis.IsLate {
			late = "Sí"
		}
		d.Items = append(d.Items,
			view.DetailItem{Label: "Método", Value: models.OrDefault(analysis.EvaluationMethod, models.NotAvailable)},
			view.DetailItem{Label: "Entrega tardía", Value: late},
			view.DetailItem{Label: "Días de retraso", Value: fmt.Sprintf("%d", analysis.LateDays)},
			view.DetailItem{Label: "Penalización total", Value: fmt.Sprintf("%.1f", analysis.TotalPenalty)},
		)
		commits := make([]string, 0, len(analysis.Commits))
		for _, c := range analysis.Commits {
			status := "A tiempo"
			if !c.OnTime {
				status = "Tarde"
			}
			sha := c.SHA
			if len(sha) > 7 {
				sha = sha[:7]
			}
			commits = append(commits, fmt.Sprintf("%s %s (%s) - %s", sha, c.Message, models.FormatDateValue(c.Date), status))
		}
		d.Lists["Commits"] = commits
		return d
	}

	if criteria := item.Criteria(); len(criteria) > 0 {
		keys := make([]string, 0, len(criteria))
		for k := range criteria {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s: %v", k, criteria[k]))
		}
		d.Lists["Criterios"] = lines
	}
	return d
}

func (e *Evaluations) form(ctx context.Context, item *models.Evaluation) (view.Form, error) {
	var (
		submissions []models.Submission
		users       []models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		submissions, err = references(gctx, e.shared, SectionSubmissions, e.shared.API.Submissions())
		return err
	})
	g.Go(func() error {
		var err error
		users, err = references(gctx, e.shared, SectionUsers, e.shared.API.Users())
		return err
	})
	if err := g.Wait(); err != nil {
		return view.Form{}, err
	}

	form := view.Form{
		ID:          "evaluation-form",
		Section:     SectionEvaluations,
		Title:       "Nueva evaluación",
		SubmitLabel: "Crear",
		Fields: []view.Field{
			{Name: "submissionId", Label: "Entrega", Type: view.FieldSelect, Required: true, Options: options(submissions)},
			{Name: "evaluatorId", Label: "Evaluador", Type: view.FieldSelect, Required: true, Options: options(users)},
			{Name: "score", Label: "Puntuación (0-5)", Type: view.FieldNumber, Required: true, Min: "0", Max: "5", Step: "0.1"},
			{Name: "evaluationType", Label: "Tipo", Type: view.FieldSelect, Required: true, Value: models.EvaluationManual,
				Options: []view.Option{
					{Value: models.EvaluationManual, Label: "Manual"},
					{Value: models.EvaluationAutomatic, Label: "Automática"},
				}},
			{Name: "comments", Label: "Comentarios", Type: view.FieldTextArea},
			{Name: "criteriaJson", Label: "Criterios (JSON)", Type: view.FieldTextArea,
				Help: `Ej: {"calidad": 4, "documentación": 5}`},
		},
	}
	if item == nil {
		return form, nil
	}

	form.Title = "Editar evaluación"
	form.SubmitLabel = "Guardar cambios"
	form.EntityID = item.ID
	form.Fields[0].Value = idString(item.SubmissionID)
	form.Fields[1].Value = idString(item.EvaluatorID)
	form.Fields[2].Value = strings.TrimSuffix(fmt.Sprintf("%.1f", item.Score), ".0")
	if item.EvaluationType != "" {
		form.Fields[3].Value = item.EvaluationType
	}
	form.Fields[4].Value = item.Comments
	form.Fields[5].Value = item.CriteriaJSON
	return form, nil
}

// AutoEvaluate asks the backend to grade a submission from its commit history and
// shows the result.
func (e *Evaluations) AutoEvaluate(ctx context.Context, submissionID, evaluatorID int64) error {
	if submissionID <= 0 || evaluatorID <= 0 {
		e.shared.notify("Seleccione una entrega y un evaluador primero", view.SeverityWarning)
		return ErrMissingSelection
	}

	result, err := e.shared.API.AutoEvaluate(ctx, submissionID, evaluatorID)
	if err != nil {
		e.count("auto", err)
		e.shared.notify("Error en evaluación automática: "+err.Error(), view.SeverityError)
		return err
	}

	e.count("auto", nil)
	e.logger.Info().
		Int64("submission_id", submissionID).
		Int64("evaluator_id", evaluatorID).
		Float64("score", result.Score).
		Msg("Automatic evaluation completed")
	e.shared.notify("Evaluación automática completada", view.SeveritySuccess)

	if err := e.Load(ctx); err != nil {
		return err
	}
	e.shared.Surface.OpenDetail(evaluationDetail(ctx, *result))
	return nil
}
