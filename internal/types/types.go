package types

// RawTable is one input file's untouched cell grid. Rows may be ragged.
type RawTable [][]string

// Cell returns the value at (row, col), or "" when out of range.
func (t RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t) || col < 0 || col >= len(t[row]) {
		return ""
	}
	return t[row][col]
}

// Row maps a column label to its cell value.
type Row map[string]string

// Table is an ordered set of labelled rows. Columns fixes the column order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows, treating a nil table as empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether label is one of the table's columns.
func (t *Table) HasColumn(label string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == label {
			return true
		}
	}
	return false
}

// Append concatenates other onto t. Columns first seen in other are
// appended to t's column order.
func (t *Table) Append(other *Table) {
	if other == nil {
		return
	}
	for _, c := range other.Columns {
		if !t.HasColumn(c) {
			t.Columns = append(t.Columns, c)
		}
	}
	t.Rows = append(t.Rows, other.Rows...)
}

// FileResult is the outcome of normalizing one input file: either a
// table of rows or an empty result with the reason it was excluded.
type FileResult struct {
	Path   string
	Source string
	Table  *Table
	Err    error
}

// Empty reports whether the file contributed no rows.
func (r FileResult) Empty() bool {
	return r.Err != nil || r.Table.Len() == 0
}

// Reason explains why an empty result contributed nothing.
func (r FileResult) Reason() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return "no questions"
}

// MergeSummary describes the output of one run.
type MergeSummary struct {
	InputDir   string
	FilesFound int
	FilesUsed  int
	Rows       int
	ExcelFile  string
	WordFile   string
}
