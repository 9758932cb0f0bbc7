package coordinator

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/RubachokBoss/course-admin/internal/apiclient"
	"github.com/RubachokBoss/course-admin/internal/cache"
	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/view"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return apiclient.NewClient(apiclient.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, zerolog.Nop())
}

func localDate(y int, m time.Month, d, h int) models.BackendTime {
	return models.NewBackendTime(time.Date(y, m, d, h, 0, 0, 0, time.Local))
}

func sampleEvaluations() []models.Evaluation {
	return []models.Evaluation{
		{ID: 1, SubmissionID: 10, Score: 3.0, EvaluationType: models.EvaluationManual, EvaluatorName: "Ana",
			TeamName: "Alfa", AssignmentTitle: "Lab 1", ClassName: "Redes", EvaluationDate: localDate(2025, 3, 10, 9)},
		{ID: 2, SubmissionID: 11, Score: 5.0, EvaluationType: models.EvaluationAutomatic, EvaluatorName: "Luis",
			TeamName: "Beta", AssignmentTitle: "Lab 2", ClassName: "Bases", EvaluationDate: localDate(2025, 3, 15, 23)},
		{ID: 3, SubmissionID: 12, Score: 4.0, EvaluationType: models.EvaluationManual,
			TeamName: "Alfa", AssignmentTitle: "Lab 1", ClassName: "Redes", CreatedAt: localDate(2025, 3, 20, 8)},
		{ID: 4, SubmissionID: 13, Score: 1.5, EvaluationType: models.EvaluationManual, EvaluatorName: "Ana",
			Comments: `Nice, "great" work`},
	}
}

func mockedEvaluations(t *testing.T, items []models.Evaluation) (*Evaluations, *view.Screen) {
	t.Helper()
	shared, screen := newShared(nil)
	e := NewEvaluations(shared)
	backend := &MockBackend[models.Evaluation]{}
	backend.On("List", mock.Anything).Return(items, nil)
	e.backend = backend
	screen.Mount(e.Template())
	require.NoError(t, e.Load(context.Background()))
	return e, screen
}

func TestInScoreBand(t *testing.T) {
	tests := []struct {
		score float64
		band  string
		want  bool
	}{
		{3.0, "3-4", true},
		{3.0, "4-5", false},
		{5.0, "5", true},
		{5.0, "4-5", true},
		{5.0, "3-4", false},
		{4.0, "3-4", false},
		{4.0, "4-5", true},
		{2.0, "2-3", true},
		{2.0, "0-2", false},
		{0.0, "0-2", true},
		{4.9, "5", false},
		{3.5, "otro", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InScoreBand(tt.score, tt.band), "score %.1f band %s", tt.score, tt.band)
	}
}

func TestApplyFilters(t *testing.T) {
	e, screen := mockedEvaluations(t, sampleEvaluations())

	tests := []struct {
		name    string
		filters map[string]string
		want    []int64
	}{
		{"no filters", nil, []int64{1, 2, 3, 4}},
		{"class", map[string]string{FilterClass: "Redes"}, []int64{1, 3}},
		{"class sentinel", map[string]string{FilterClass: "Sin clase"}, []int64{4}},
		{"evaluator sentinel", map[string]string{FilterEvaluator: "Sin evaluador"}, []int64{3}},
		{"type and team", map[string]string{FilterType: models.EvaluationManual, FilterTeam: "Alfa"}, []int64{1, 3}},
		{"score band", map[string]string{FilterScore: "4-5"}, []int64{2, 3}},
		{"date range end of day", map[string]string{FilterDateFrom: "2025-03-10", FilterDateTo: "2025-03-15"}, []int64{1, 2}},
		{"date uses created at", map[string]string{FilterDateFrom: "2025-03-16"}, []int64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.ClearAllFilters()
			for name, value := range tt.filters {
				require.NoError(t, e.SetFilter(name, value))
			}
			e.ApplyFilters()

			var ids []int64
			for _, item := range e.Filtered() {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.want, ids)

			table, _ := screen.Table("evaluations-table-body")
			assert.Equal(t, tt.want, rowIDs(table))
		})
	}

	assert.ErrorIs(t, e.SetFilter("color", "rojo"), ErrUnknownFilter)
}

func TestWithinDay_DaylightSavingDays(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	// 26/10/2025 dura 25 horas, 30/03/2025 dura 23
	autumn := time.Date(2025, 10, 26, 0, 0, 0, 0, madrid)
	assert.True(t, withinDay(time.Date(2025, 10, 26, 23, 30, 0, 0, madrid), autumn))
	assert.False(t, withinDay(time.Date(2025, 10, 27, 0, 0, 0, 0, madrid), autumn))

	spring := time.Date(2025, 3, 30, 0, 0, 0, 0, madrid)
	assert.True(t, withinDay(time.Date(2025, 3, 30, 23, 59, 0, 0, madrid), spring))
	assert.False(t, withinDay(time.Date(2025, 3, 31, 0, 30, 0, 0, madrid), spring))
}

func TestApplyFilters_IsIdempotent(t *testing.T) {
	e, _ := mockedEvaluations(t, sampleEvaluations())
	require.NoError(t, e.SetFilter(FilterTeam, "Alfa"))
	require.NoError(t, e.SetFilter(FilterScore, "3-4"))

	e.ApplyFilters()
	first := e.Filtered()
	e.ApplyFilters()

	assert.Equal(t, first, e.Filtered())
	require.Len(t, first, 1)
	assert.Equal(t, int64(1), first[0].ID)
}

func TestClearAllFilters_RestoresFullList(t *testing.T) {
	e, screen := mockedEvaluations(t, sampleEvaluations())
	require.NoError(t, e.SetFilter(FilterClass, "Bases"))
	require.NoError(t, e.SetFilter(FilterDateTo, "2025-01-01"))
	e.ApplyFilters()
	assert.Empty(t, e.Filtered())

	table, _ := screen.Table("evaluations-table-body")
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "No hay evaluaciones registradas", table.Rows[0].Cells[0].Text)

	e.ClearAllFilters()
	assert.Equal(t, e.Items(), e.Filtered())
	assert.Equal(t, Filters{}, e.Filters())

	panel, ok := screen.Filters("evaluations-filters")
	require.True(t, ok)
	assert.Equal(t, 4, panel.Showing)
	assert.Equal(t, 4, panel.Total)
}

func TestFilterOptions(t *testing.T) {
	_, screen := mockedEvaluations(t, sampleEvaluations())

	panel, ok := screen.Filters("evaluations-filters")
	require.True(t, ok)

	values := func(name string) []string {
		for _, f := range panel.Fields {
			if f.Name == name {
				var out []string
				for _, o := range f.Options {
					out = append(out, o.Value)
				}
				return out
			}
		}
		return nil
	}
	assert.Equal(t, []string{"Bases", "Redes", "Sin clase"}, values(FilterClass))
	assert.Equal(t, []string{"Lab 1", "Lab 2", "Sin asignación"}, values(FilterAssignment))
	assert.Equal(t, []string{"Ana", "Luis", "Sin evaluador"}, values(FilterEvaluator))
	assert.Equal(t, []string{"5", "4-5", "3-4", "2-3", "0-2"}, values(FilterScore))
}

func TestFilterOptions_ClassFallback(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/evaluations":
			io.WriteString(w, `[{"id": 1, "score": 4, "teamName": "Alfa"}]`)
		case "/classes":
			io.WriteString(w, `[{"id": 1, "name": "Sistemas"}, {"id": 2, "name": "Álgebra"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	shared, screen := newShared(api)
	e := NewEvaluations(shared)
	screen.Mount(e.Template())

	require.NoError(t, e.Load(context.Background()))

	panel, _ := screen.Filters("evaluations-filters")
	var classes []string
	for _, o := range panel.Fields[0].Options {
		classes = append(classes, o.Value)
	}
	assert.Equal(t, []string{"Álgebra", "Sistemas"}, classes)
}

func TestEscapeCSV(t *testing.T) {
	assert.Equal(t, "simple", EscapeCSV("simple"))
	assert.Equal(t, `"Nice, ""great"" work"`, EscapeCSV(`Nice, "great" work`))
	assert.Equal(t, "\"dos\nlíneas\"", EscapeCSV("dos\nlíneas"))
}

func TestDeliveryStatus(t *testing.T) {
	due := localDate(2025, 3, 10, 12)
	assert.Equal(t, "Sin entregar", DeliveryStatus(models.BackendTime{}, due))
	assert.Equal(t, "Entregado", DeliveryStatus(due, models.BackendTime{}))
	assert.Equal(t, "A tiempo", DeliveryStatus(due, due))
	assert.Equal(t, "Tardío", DeliveryStatus(localDate(2025, 3, 10, 13), due))
}

func exportShared(t *testing.T) (Shared, *view.Screen) {
	shared, screen := newShared(nil)
	cache.Put(shared.Cache, SectionSubmissions, []models.Submission{
		{ID: 10, AssignmentID: 100, SubmittedAt: localDate(2025, 3, 9, 10)},
		{ID: 11, AssignmentID: 101, SubmittedAt: localDate(2025, 3, 12, 10)},
	})
	cache.Put(shared.Cache, SectionAssignments, []models.Assignment{
		{ID: 100, DueDate: localDate(2025, 3, 10, 0)},
		{ID: 101, DueDate: localDate(2025, 3, 11, 0)},
	})
	return shared, screen
}

func TestExportCSV_ReparsesToOriginalValues(t *testing.T) {
	shared, screen := exportShared(t)
	e := NewEvaluations(shared)
	backend := &MockBackend[models.Evaluation]{}
	backend.On("List", mock.Anything).Return(sampleEvaluations(), nil)
	e.backend = backend
	screen.Mount(e.Template())
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))

	require.NoError(t, e.SetFilter(FilterEvaluator, "Ana"))
	e.ApplyFilters()

	var buf bytes.Buffer
	require.NoError(t, e.ExportCSV(ctx, &buf))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, ExportHeaders, records[0])

	assert.Equal(t, []string{"1", "10", "Lab 1", "Alfa", "3", "60", "Ana", "MANUAL"}, records[1][:8])
	assert.Equal(t, "A tiempo", records[1][11])
	assert.Equal(t, "4", records[2][0])
	assert.Equal(t, "N/A", records[2][2])
	assert.Equal(t, "Sin entregar", records[2][11])
	assert.Equal(t, `Nice, "great" work`, records[2][12])
}

func TestExportCSV_WithoutSubmissionsKeepsEvaluations(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/submissions":
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"message": "entregas no disponibles"}`)
		default:
			io.WriteString(w, `[]`)
		}
	})
	shared, screen := newShared(api)
	e := NewEvaluations(shared)
	backend := &MockBackend[models.Evaluation]{}
	backend.On("List", mock.Anything).Return(sampleEvaluations()[:2], nil)
	e.backend = backend
	screen.Mount(e.Template())
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))
	screen.DrainToasts()

	var buf bytes.Buffer
	require.NoError(t, e.ExportCSV(ctx, &buf))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2", records[2][0])
	assert.Equal(t, "5", records[2][4])
	assert.Equal(t, []string{"", "", ""}, records[2][9:12])

	toasts := screen.DrainToasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Exportación sin datos de entrega: HTTP 500: entregas no disponibles", toasts[0].Message)
	assert.Equal(t, view.SeverityWarning, toasts[0].Severity)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disco lleno")
}

func TestExport_WriteFailureIsNotified(t *testing.T) {
	shared, screen := exportShared(t)
	e := NewEvaluations(shared)
	backend := &MockBackend[models.Evaluation]{}
	backend.On("List", mock.Anything).Return(sampleEvaluations()[:1], nil)
	e.backend = backend
	screen.Mount(e.Template())
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))
	screen.DrainToasts()

	assert.Error(t, e.ExportCSV(ctx, failingWriter{}))
	assert.Error(t, e.ExportXLSX(ctx, failingWriter{}))
	messages := messagesOf(screen)
	require.Len(t, messages, 2)
	assert.Equal(t, "Error al exportar evaluaciones: disco lleno", messages[0])
	assert.True(t, strings.HasPrefix(messages[1], "Error al exportar evaluaciones: "))
	assert.Contains(t, messages[1], "disco lleno")
}

func TestExportXLSX(t *testing.T) {
	shared, screen := exportShared(t)
	e := NewEvaluations(shared)
	backend := &MockBackend[models.Evaluation]{}
	backend.On("List", mock.Anything).Return(sampleEvaluations()[:2], nil)
	e.backend = backend
	screen.Mount(e.Template())
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))

	var buf bytes.Buffer
	require.NoError(t, e.ExportXLSX(ctx, &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Evaluaciones")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Tardío", rows[2][11])
}

func TestDownloadAll(t *testing.T) {
	shared, screen := exportShared(t)
	e := NewEvaluations(shared)
	backend := &MockBackend[models.Evaluation]{}
	backend.On("List", mock.Anything).Return([]models.Evaluation{}, nil).Once()
	backend.On("List", mock.Anything).Return(sampleEvaluations(), nil).Once()
	e.backend = backend
	ctx := context.Background()

	var buf bytes.Buffer
	assert.ErrorIs(t, e.DownloadAll(ctx, &buf), ErrNothingToExport)
	assert.Equal(t, []string{"No hay evaluaciones para descargar"}, messagesOf(screen))

	require.NoError(t, e.DownloadAll(ctx, &buf))
	assert.Equal(t, []string{"4 evaluaciones descargadas exitosamente"}, messagesOf(screen))
	assert.Equal(t, 4, strings.Count(buf.String(), "\n"))
}

func TestEvaluationDetail_CommitDates(t *testing.T) {
	item := models.Evaluation{ID: 3, CriteriaJSON: `{
		"commits": [
			{"message": "init", "sha": "abcdef1234", "date": [2025, 7, 1, 10, 0], "onTime": true},
			{"message": "fix", "sha": "1234567890", "date": "ayer", "onTime": false},
			{"message": "docs", "sha": "99", "onTime": true}
		],
		"evaluationMethod": "GITHUB_COMMITS"
	}`}

	detail := evaluationDetail(context.Background(), item)

	assert.Equal(t, []string{
		"abcdef1 init (01/07/2025 10:00) - A tiempo",
		"1234567 fix (Fecha inválida) - Tarde",
		"99 docs (N/A) - A tiempo",
	}, detail.Lists["Commits"])
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2025, 7, 20, 21, 2, 14, 0, time.Local)
	assert.Equal(t, "evaluaciones_2025-07-20.csv", ExportFileName("csv", now))
}

func TestAutoEvaluate(t *testing.T) {
	var autoCalls int
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/evaluations/auto/10/2":
			autoCalls++
			io.WriteString(w, `{"id": 9, "submissionId": 10, "score": 4.5, "evaluationType": "AUTOMATIC",
				"criteriaJson": "{\"commits\":[{\"message\":\"init\",\"sha\":\"abcdef1234\",\"onTime\":true}],\"lateDays\":0,\"evaluationMethod\":\"COMMIT_ANALYSIS\"}"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/evaluations/auto/10/3":
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"message": "La entrega no tiene repositorio"}`)
		case r.URL.Path == "/evaluations":
			io.WriteString(w, `[{"id": 9, "score": 4.5, "className": "Redes"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	shared, screen := newShared(api)
	e := NewEvaluations(shared)
	ctx := context.Background()

	assert.ErrorIs(t, e.AutoEvaluate(ctx, 0, 2), ErrMissingSelection)
	assert.Equal(t, []string{"Seleccione una entrega y un evaluador primero"}, messagesOf(screen))
	assert.Zero(t, autoCalls)

	require.NoError(t, e.AutoEvaluate(ctx, 10, 2))
	assert.Equal(t, []string{"Evaluación automática completada"}, messagesOf(screen))
	assert.Equal(t, 1, e.Len())

	detail, ok := screen.Detail()
	require.True(t, ok)
	assert.Equal(t, []string{"abcdef1 init (N/A) - A tiempo"}, detail.Lists["Commits"])

	require.Error(t, e.AutoEvaluate(ctx, 10, 3))
	assert.Equal(t, []string{"Error en evaluación automática: HTTP 400: La entrega no tiene repositorio"}, messagesOf(screen))
}
