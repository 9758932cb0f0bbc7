// Package spreadsheet writes tabular exports as .xlsx workbooks and pre-checks
// workbooks before they are uploaded for import.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("formato de archivo no soportado, use .xlsx o .xls")
	ErrEmptyWorkbook     = errors.New("el archivo no contiene datos")
)

// Write renders headers and rows into a single-sheet workbook.
func Write(w io.Writer, sheet string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if len(headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return fmt.Errorf("failed to size columns: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Summary describes a workbook that passed Inspect.
type Summary struct {
	Sheets []string
	Rows   int
}

// Inspect checks an upload before it reaches the backend: the extension must be .xlsx
// or .xls, and .xlsx content must open and hold at least one row besides the header.
// Legacy .xls files are passed through unchecked.
func Inspect(fileName string, content []byte) (*Summary, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".xlsx":
	case ".xls":
		if len(content) == 0 {
			return nil, ErrEmptyWorkbook
		}
		return &Summary{}, nil
	default:
		return nil, ErrUnsupportedFormat
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("el archivo no es un libro de Excel válido: %w", err)
	}
	defer f.Close()

	summary := &Summary{Sheets: f.GetSheetList()}
	for _, sheet := range summary.Sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		if len(rows) > 1 {
			summary.Rows += len(rows) - 1
		}
	}
	if summary.Rows == 0 {
		return nil, ErrEmptyWorkbook
	}
	return summary, nil
}
