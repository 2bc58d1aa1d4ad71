// Package intake turns tabular import files into ordered raw rows for the
// sewadar import pipeline. It only extracts; all interpretation of the
// values happens in the normalizer.
package intake

// Row is one data line of an import file: column header → cell value, plus
// the 1-based line number in the source file for error reporting. Values are
// raw strings exactly as they appeared in the file.
type Row struct {
	Line   int
	Fields map[string]string
}

// Get returns the value for a column header, or "" when the column is absent.
func (r Row) Get(column string) string {
	return r.Fields[column]
}
