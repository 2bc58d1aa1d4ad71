package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sewasangat/attendance/pkg/core/importer"
	"github.com/sewasangat/attendance/pkg/intake"
)

// ImportFormat identifies how an uploaded import file is parsed
type ImportFormat string

const (
	FormatCSV  ImportFormat = "csv"
	FormatXLSX ImportFormat = "xlsx"
)

// FormatForFilename picks the import format from a file extension.
func FormatForFilename(name string) (ImportFormat, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported import file type %q", filepath.Ext(name))
	}
}

// SheetRowsClient defines the Google Sheets operations the sheet-based
// import needs
type SheetRowsClient interface {
	GetRows(spreadsheetID, tabName string) ([]intake.Row, error)
}

// ImportSewadars parses an uploaded file and runs the reconciliation
// pipeline under the given job identifier. Parse failures mark the job
// FAILED so pollers that already hold the job ID see a terminal state.
func ImportSewadars(
	ctx context.Context,
	store importer.Store,
	jobs importer.JobStore,
	logger *zap.Logger,
	jobID string,
	format ImportFormat,
	file io.Reader,
) (*importer.Result, error) {
	var rows []intake.Row
	var err error

	switch format {
	case FormatCSV:
		rows, err = intake.ReadCSV(file)
	case FormatXLSX:
		rows, err = intake.ReadXLSX(file)
	default:
		err = fmt.Errorf("unknown import format %q", format)
	}
	if err != nil {
		failJob(jobs, jobID, fmt.Sprintf("could not read file: %v", err))
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}

	pipeline := &importer.Pipeline{Store: store, Jobs: jobs, Logger: logger}
	return pipeline.Run(ctx, jobID, rows)
}

// ImportSewadarsFromSheet runs the reconciliation pipeline over the rows of
// a Google Sheet tab instead of an uploaded file.
func ImportSewadarsFromSheet(
	ctx context.Context,
	store importer.Store,
	jobs importer.JobStore,
	sheets SheetRowsClient,
	logger *zap.Logger,
	jobID string,
	spreadsheetID, tabName string,
) (*importer.Result, error) {
	rows, err := sheets.GetRows(spreadsheetID, tabName)
	if err != nil {
		failJob(jobs, jobID, fmt.Sprintf("could not read sheet: %v", err))
		return nil, fmt.Errorf("failed to fetch sheet rows: %w", err)
	}

	pipeline := &importer.Pipeline{Store: store, Jobs: jobs, Logger: logger}
	return pipeline.Run(ctx, jobID, rows)
}

func failJob(jobs importer.JobStore, jobID, message string) {
	job := importer.NewJob(jobID, 0)
	job.Status = importer.StatusFailed
	job.Message = message
	jobs.Set(job)
}
