package coordinator

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

// Filter names, as submitted by the filter panel.
const (
	FilterClass      = "class"
	FilterAssignment = "assignment"
	FilterTeam       = "team"
	FilterEvaluator  = "evaluator"
	FilterType       = "type"
	FilterScore      = "score"
	FilterDateFrom   = "dateFrom"
	FilterDateTo     = "dateTo"
)

// FilterNames lists every filter the evaluation panel accepts.
var FilterNames = []string{
	FilterClass, FilterAssignment, FilterTeam, FilterEvaluator,
	FilterType, FilterScore, FilterDateFrom, FilterDateTo,
}

var ErrUnknownFilter = errors.New("unknown filter")

const (
	noClass      = "Sin clase"
	noAssignment = "Sin asignación"
	noTeam       = "Sin equipo"
	noEvaluator  = "Sin evaluador"
)

// Score bands. "4-5" is closed, the lower bands are half-open so that only the
// exact-5 band overlaps another one.
var scoreBands = []view.Option{
	{Value: "5", Label: "5 (Perfecto)"},
	{Value: "4-5", Label: "4 - 5 (Excelente)"},
	{Value: "3-4", Label: "3 - 4 (Bueno)"},
	{Value: "2-3", Label: "2 - 3 (Regular)"},
	{Value: "0-2", Label: "0 - 2 (Deficiente)"},
}

// InScoreBand reports whether score falls in band. Unknown bands match nothing.
func InScoreBand(score float64, band string) bool {
	switch band {
	case "5":
		return score == 5
	case "4-5":
		return score >= 4 && score <= 5
	case "3-4":
		return score >= 3 && score < 4
	case "2-3":
		return score >= 2 && score < 3
	case "0-2":
		return score >= 0 && score < 2
	}
	return false
}

// Filters holds the current selections. Empty means "any".
type Filters struct {
	Class      string
	Assignment string
	Team       string
	Evaluator  string
	Type       string
	Score      string
	DateFrom   string
	DateTo     string
}

func (f *Filters) set(name, value string) error {
	value = strings.TrimSpace(value)
	switch name {
	case FilterClass:
		f.Class = value
	case FilterAssignment:
		f.Assignment = value
	case FilterTeam:
		f.Team = value
	case FilterEvaluator:
		f.Evaluator = value
	case FilterType:
		f.Type = value
	case FilterScore:
		f.Score = value
	case FilterDateFrom:
		f.DateFrom = value
	case FilterDateTo:
		f.DateTo = value
	default:
		return ErrUnknownFilter
	}
	return nil
}

// Match tests one evaluation against every set dimension.
func (f Filters) Match(e models.Evaluation) bool {
	if f.Class != "" && models.OrDefault(e.ClassName, noClass) != f.Class {
		return false
	}
	if f.Assignment != "" && models.OrDefault(e.AssignmentTitle, noAssignment) != f.Assignment {
		return false
	}
	if f.Team != "" && models.OrDefault(e.TeamName, noTeam) != f.Team {
		return false
	}
	if f.Evaluator != "" && models.OrDefault(e.EvaluatorName, noEvaluator) != f.Evaluator {
		return false
	}
	if f.Type != "" && e.EvaluationType != f.Type {
		return false
	}
	if f.Score != "" && !InScoreBand(e.Score, f.Score) {
		return false
	}

	from, hasFrom := parseFilterDate(f.DateFrom)
	to, hasTo := parseFilterDate(f.DateTo)
	if !hasFrom && !hasTo {
		return true
	}
	date := e.Date()
	if !date.Valid() {
		return false
	}
	if hasFrom && date.Before(from) {
		return false
	}
	if hasTo && !withinDay(date.Time, to) {
		return false
	}
	return true
}

// withinDay reports whether t falls on or before the calendar day that starts at day.
// AddDate keeps local midnight on days with 23 or 25 hours.
func withinDay(t, day time.Time) bool {
	return t.Before(day.AddDate(0, 0, 1))
}

func parseFilterDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type filterChoices struct {
	classes     []string
	assignments []string
	teams       []string
	evaluators  []string
}

// deriveChoices collects the distinct values of each filter dimension, sorted with
// Spanish collation.
func deriveChoices(items []models.Evaluation) filterChoices {
	classes := map[string]struct{}{}
	assignments := map[string]struct{}{}
	teams := map[string]struct{}{}
	evaluators := map[string]struct{}{}

	for _, e := range items {
		classes[models.OrDefault(e.ClassName, noClass)] = struct{}{}
		assignments[models.OrDefault(e.AssignmentTitle, noAssignment)] = struct{}{}
		teams[models.OrDefault(e.TeamName, noTeam)] = struct{}{}
		evaluators[models.OrDefault(e.EvaluatorName, noEvaluator)] = struct{}{}
	}
	return filterChoices{
		classes:     sortedKeys(classes),
		assignments: sortedKeys(assignments),
		teams:       sortedKeys(teams),
		evaluators:  sortedKeys(evaluators),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	collate.New(language.Spanish).SortStrings(out)
	return out
}

// hasClassNames reports whether any evaluation carries a class name.
func hasClassNames(items []models.Evaluation) bool {
	for _, e := range items {
		if strings.TrimSpace(e.ClassName) != "" {
			return true
		}
	}
	return false
}

// refreshFilters runs after every load: it rebuilds the option sets, re-applies the
// current selections and renders the filter panel.
func (e *Evaluations) refreshFilters(ctx context.Context) {
	items := e.Items()
	choices := deriveChoices(items)

	if !hasClassNames(items) {
		classes, err := references(ctx, e.shared, SectionClasses, e.shared.API.Classes())
		if err != nil {
			e.logger.Warn().Err(err).Msg("Failed to load classes for filter options")
		} else {
			set := map[string]struct{}{}
			for _, c := range classes {
				if strings.TrimSpace(c.Name) != "" {
					set[c.Name] = struct{}{}
				}
			}
			if len(set) > 0 {
				choices.classes = sortedKeys(set)
			}
		}
	}

	e.fmu.Lock()
	e.choices = choices
	e.filtered = e.filter(items)
	e.fmu.Unlock()

	e.renderFilters()
}

func (e *Evaluations) filter(items []models.Evaluation) []models.Evaluation {
	out := make([]models.Evaluation, 0, len(items))
	for _, item := range items {
		if e.filters.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Filtered returns a copy of the filtered view.
func (e *Evaluations) Filtered() []models.Evaluation {
	e.fmu.Lock()
	defer e.fmu.Unlock()
	return append([]models.Evaluation(nil), e.filtered...)
}

func (e *Evaluations) Filters() Filters {
	e.fmu.Lock()
	defer e.fmu.Unlock()
	return e.filters
}

// SetFilter changes one selection without recomputing the view.
func (e *Evaluations) SetFilter(name, value string) error {
	e.fmu.Lock()
	defer e.fmu.Unlock()
	return e.filters.set(name, value)
}

// ApplyFilters recomputes the filtered view from the full list and renders it.
func (e *Evaluations) ApplyFilters() {
	items := e.Items()

	e.fmu.Lock()
	e.filtered = e.filter(items)
	e.fmu.Unlock()

	e.Render()
	e.renderFilters()
}

// ClearAllFilters drops every selection and restores the full list, in order.
func (e *Evaluations) ClearAllFilters() {
	items := e.Items()

	e.fmu.Lock()
	e.filters = Filters{}
	e.filtered = items
	e.fmu.Unlock()

	e.Render()
	e.renderFilters()
}

func (e *Evaluations) renderFilters() {
	region, ok := e.shared.Surface.Region(filtersRegion)
	if !ok {
		return
	}

	e.fmu.Lock()
	f := e.filters
	choices := e.choices
	showing := len(e.filtered)
	e.fmu.Unlock()

	typeOptions := []view.Option{
		{Value: models.EvaluationManual, Label: evaluationTypeLabels[models.EvaluationManual]},
		{Value: models.EvaluationAutomatic, Label: evaluationTypeLabels[models.EvaluationAutomatic]},
	}

	region.SetFilters(view.FilterPanel{
		Fields: []view.FilterField{
			{Name: FilterClass, Label: "Clase", Type: view.FieldSelect, Options: plainOptions(choices.classes), Selected: f.Class},
			{Name: FilterAssignment, Label: "Asignación", Type: view.FieldSelect, Options: plainOptions(choices.assignments), Selected: f.Assignment},
			{Name: FilterTeam, Label: "Equipo", Type: view.FieldSelect, Options: plainOptions(choices.teams), Selected: f.Team},
			{Name: FilterEvaluator, Label: "Evaluador", Type: view.FieldSelect, Options: plainOptions(choices.evaluators), Selected: f.Evaluator},
			{Name: FilterType, Label: "Tipo", Type: view.FieldSelect, Options: typeOptions, Selected: f.Type},
			{Name: FilterScore, Label: "Puntuación", Type: view.FieldSelect, Options: scoreBands, Selected: f.Score},
			{Name: FilterDateFrom, Label: "Desde", Type: view.FieldDate, Selected: f.DateFrom},
			{Name: FilterDateTo, Label: "Hasta", Type: view.FieldDate, Selected: f.DateTo},
		},
		Showing: showing,
		Total:   e.Len(),
	})
}

func plainOptions(values []string) []view.Option {
	out := make([]view.Option, 0, len(values))
	for _, v := range values {
		out = append(out, view.Option{Value: v, Label: v})
	}
	return out
}
