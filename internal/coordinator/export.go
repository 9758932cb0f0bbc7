package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RubachokBoss/course-admin/internal/models"
	"github.com/RubachokBoss/course-admin/internal/spreadsheet"
	"github.com/RubachokBoss/course-admin/internal/view"
)

var ErrNothingToExport = errors.New("no hay evaluaciones para descargar")

// ExportHeaders are the columns of every evaluation export.
var ExportHeaders = []string{
	"ID Evaluación",
	"ID Entrega",
	"Título Asignación",
	"Nombre Equipo",
	"Puntuación (0-5)",
	"Puntuación (%)",
	"Evaluador",
	"Tipo Evaluación",
	"Fecha Evaluación",
	"Fecha Límite",
	"Fecha Entrega Real",
	"Estado Entrega",
	"Comentarios",
	"Criterios JSON",
}

// ExportFileName is "evaluaciones_YYYY-MM-DD.<ext>".
func ExportFileName(ext string, now time.Time) string {
	return fmt.Sprintf("evaluaciones_%s.%s", now.Format(time.DateOnly), ext)
}

// DeliveryStatus compares the real submission date with the due date.
func DeliveryStatus(submitted, due models.BackendTime) string {
	switch {
	case !submitted.Valid():
		return "Sin entregar"
	case !due.Valid():
		return "Entregado"
	case !submitted.After(due.Time):
		return "A tiempo"
	default:
		return "Tardío"
	}
}

// EscapeCSV quotes a value only when it holds a comma, a quote or a line break.
func EscapeCSV(v string) string {
	if !strings.ContainsAny(v, ",\"\n\r") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// ExportCSV writes the filtered view.
func (e *Evaluations) ExportCSV(ctx context.Context, w io.Writer) error {
	if err := writeCSV(w, e.exportRows(ctx, e.Filtered())); err != nil {
		e.shared.notify("Error al exportar evaluaciones: "+err.Error(), view.SeverityError)
		return err
	}
	return nil
}

// ExportXLSX writes the filtered view as a workbook.
func (e *Evaluations) ExportXLSX(ctx context.Context, w io.Writer) error {
	if err := spreadsheet.Write(w, "Evaluaciones", ExportHeaders, e.exportRows(ctx, e.Filtered())); err != nil {
		e.shared.notify("Error al exportar evaluaciones: "+err.Error(), view.SeverityError)
		return err
	}
	return nil
}

// DownloadAll reads every evaluation from the backend, ignoring filters, and writes
// them as CSV.
func (e *Evaluations) DownloadAll(ctx context.Context, w io.Writer) error {
	items, err := e.backend.List(ctx)
	if err != nil {
		e.shared.notify("Error al descargar evaluaciones: "+err.Error(), view.SeverityError)
		return err
	}
	if len(items) == 0 {
		e.shared.notify("No hay evaluaciones para descargar", view.SeverityError)
		return ErrNothingToExport
	}

	if err := writeCSV(w, e.exportRows(ctx, items)); err != nil {
		e.shared.notify("Error al descargar evaluaciones: "+err.Error(), view.SeverityError)
		return err
	}
	e.shared.notify(fmt.Sprintf("%d evaluaciones descargadas exitosamente", len(items)), view.SeveritySuccess)
	return nil
}

func writeCSV(w io.Writer, rows [][]string) error {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinCSV(ExportHeaders))
	for _, row := range rows {
		lines = append(lines, joinCSV(row))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func joinCSV(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = EscapeCSV(v)
	}
	return strings.Join(escaped, ",")
}

// exportRows joins each evaluation with its submission and assignment for the
// delivery columns. When a reference list cannot be fetched the export still goes
// out, with the columns that depend on it left blank.
func (e *Evaluations) exportRows(ctx context.Context, items []models.Evaluation) [][]string {
	var (
		g           errgroup.Group
		submissions []models.Submission
		assignments []models.Assignment
		subErr      error
		asgErr      error
	)

	// без WithContext: ошибка одного списка не должна отменять другой
	g.Go(func() error {
		submissions, subErr = references(ctx, e.shared, SectionSubmissions, e.shared.API.Submissions())
		return nil
	})
	g.Go(func() error {
		assignments, asgErr = references(ctx, e.shared, SectionAssignments, e.shared.API.Assignments())
		return nil
	})
	g.Wait()

	if err := errors.Join(subErr, asgErr); err != nil {
		e.logger.Warn().Err(err).Msg("Exporting without delivery data")
		first := subErr
		if first == nil {
			first = asgErr
		}
		e.shared.notify("Exportación sin datos de entrega: "+first.Error(), view.SeverityWarning)
	}

	bySubmission := make(map[int64]models.Submission, len(submissions))
	for _, s := range submissions {
		bySubmission[s.ID] = s
	}
	byAssignment := make(map[int64]models.Assignment, len(assignments))
	for _, a := range assignments {
		byAssignment[a.ID] = a
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		sub := bySubmission[item.SubmissionID]
		due := byAssignment[sub.AssignmentID].DueDate

		title := models.OrDefault(item.AssignmentTitle, sub.AssignmentTitle)
		team := models.OrDefault(item.TeamName, sub.TeamName)

		var submitted, deadline, status string
		if subErr == nil {
			submitted = models.FormatDateTime(sub.SubmittedAt)
		}
		if subErr == nil && asgErr == nil {
			deadline = models.FormatDateTime(due)
			status = DeliveryStatus(sub.SubmittedAt, due)
		}

		rows = append(rows, []string{
			idString(item.ID),
			idString(item.SubmissionID),
			models.OrDefault(title, models.NotAvailable),
			models.OrDefault(team, models.NotAvailable),
			strconv.FormatFloat(item.Score, 'f', -1, 64),
			strconv.Itoa(int(math.Round(item.Score / models.MaxScore * 100))),
			models.OrDefault(item.EvaluatorName, models.NotAvailable),
			models.OrDefault(item.EvaluationType, models.NotAvailable),
			models.FormatDateTime(item.Date()),
			deadline,
			submitted,
			status,
			item.Comments,
			item.CriteriaJSON,
		})
	}
	return rows
}
