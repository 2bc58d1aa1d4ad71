package intake

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX parses the first sheet of an Excel workbook into rows, with the
// same header/field contract as ReadCSV.
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	return FromRecords(records), nil
}

// FromRecords converts pre-split tabular records (header first) into rows.
// Shared by the XLSX reader and the Google Sheets intake, which both deliver
// data as a slice of cell slices.
func FromRecords(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]Row, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		fields := make(map[string]string, len(header))
		for j, col := range header {
			if col == "" {
				continue
			}
			if j < len(records[i]) {
				fields[col] = records[i][j]
			} else {
				fields[col] = ""
			}
		}
		rows = append(rows, Row{Line: i + 1, Fields: fields})
	}

	return rows
}
