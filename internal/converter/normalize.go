package converter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/types"
)

var ErrHeaderOutOfRange = errors.New("header row is beyond the end of the sheet")

// MissingColumnError reports a required column that the header row lacks.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// Normalize slices the header and data rows out of table according to the
// configured layout and projects each data row onto the configured columns.
//
// Rows with an empty question type are dropped, as are rows whose question
// type equals the type column's own label (a header pasted into the data).
// Only the type column is compared, so a pasted header with a different
// type cell survives.
func Normalize(table types.RawTable, source string, cfg config.Config) (*types.Table, error) {
	layout := cfg.Excel
	headerIdx := layout.HeaderRowIndex
	if headerIdx < 0 || headerIdx >= len(table) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrHeaderOutOfRange, headerIdx, len(table))
	}

	dataStart := headerIdx + 1
	if layout.SkipDescriptionRow {
		dataStart = layout.DataStartRow
	}

	index := columnIndex(table[headerIdx])

	typeLabel := cfg.Columns.QuestionType
	typeCol, ok := index[typeLabel]
	if !ok {
		return nil, &MissingColumnError{Column: typeLabel, Available: availableColumns(table[headerIdx])}
	}

	sourceLabel := cfg.SourceColumn()
	columns := []string{sourceLabel}
	for _, label := range cfg.OrderedColumns() {
		if _, ok := index[label]; ok && label != sourceLabel {
			columns = append(columns, label)
		}
	}

	// A previously merged file already carries provenance; keep it.
	srcCol, hasSrc := index[sourceLabel]

	out := &types.Table{Columns: columns}
	for r := dataStart; r < len(table); r++ {
		typeVal := strings.TrimSpace(table.Cell(r, typeCol))
		if typeVal == "" || typeVal == typeLabel {
			continue
		}

		row := make(types.Row, len(columns))
		row[sourceLabel] = source
		if hasSrc {
			if v := strings.TrimSpace(table.Cell(r, srcCol)); v != "" {
				row[sourceLabel] = v
			}
		}
		for _, label := range columns[1:] {
			row[label] = strings.TrimSpace(table.Cell(r, index[label]))
		}
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}

// columnIndex maps each trimmed header label to its first column.
func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, cell := range header {
		label := strings.TrimSpace(cell)
		if label == "" {
			continue
		}
		if _, dup := index[label]; !dup {
			index[label] = i
		}
	}
	return index
}

func availableColumns(header []string) []string {
	var out []string
	for _, cell := range header {
		if label := strings.TrimSpace(cell); label != "" {
			out = append(out, label)
		}
	}
	return out
}
