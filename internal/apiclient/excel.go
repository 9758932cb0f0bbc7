package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/RubachokBoss/course-admin/internal/models"
)

// ImportSpreadsheet uploads a workbook to the backend bulk import job.
func (c *Client) ImportSpreadsheet(ctx context.Context, fileName string, content []byte) (*models.ImportReport, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, normalize(fmt.Errorf("failed to create form file: %w", err), 0)
	}
	if _, err := part.Write(content); err != nil {
		return nil, normalize(fmt.Errorf("failed to copy file content: %w", err), 0)
	}
	if err := writer.Close(); err != nil {
		return nil, normalize(fmt.Errorf("failed to close multipart writer: %w", err), 0)
	}

	var report models.ImportReport
	body := RawBody{ContentType: writer.FormDataContentType(), Data: buf.Bytes()}
	if err := c.doJSON(ctx, http.MethodPost, "/excel/import", body, &report); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("file", fileName).
		Bool("success", report.Success).
		Int("processed", report.Stats.TotalProcessed).
		Int("errors", len(report.Errors)).
		Msg("Spreadsheet imported")

	return &report, nil
}

// SpreadsheetFormat returns the backend description of the expected workbook layout.
func (c *Client) SpreadsheetFormat(ctx context.Context) (any, error) {
	return c.Do(ctx, http.MethodGet, "/excel/format-info", nil, nil)
}
