package sheetsclient

import (
	"fmt"

	"github.com/sewasangat/attendance/pkg/intake"
)

// GetRows retrieves a sheet tab as import rows: first row is the header,
// following rows become field maps keyed by it. The result feeds the same
// pipeline as uploaded CSV/XLSX files.
func (c *Client) GetRows(spreadsheetID, tabName string) ([]intake.Row, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, tabName).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet values: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("sheet tab %q is empty", tabName)
	}

	records := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			if s, ok := cell.(string); ok {
				cells = append(cells, s)
			} else {
				cells = append(cells, fmt.Sprint(cell))
			}
		}
		records = append(records, cells)
	}

	return intake.FromRecords(records), nil
}
