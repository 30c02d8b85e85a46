package converter

import (
	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/types"
)

const (
	PreviewRows     = 5
	PreviewCellSize = 50
)

// Inspection summarises an input file so a user can write a matching
// configuration by hand.
type Inspection struct {
	Path    string
	Rows    int
	Columns int

	// Preview holds the first PreviewRows rows, padded to Columns and with
	// long cells truncated.
	Preview [][]string

	Format      Format
	Recommended config.ExcelSettings

	// Labels are the non-empty cells of the detected header row.
	Labels []string
}

// Inspect reads path and runs the header detector over it.
func Inspect(path string) (*Inspection, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}

	ins := &Inspection{
		Path:    path,
		Rows:    len(table),
		Columns: width(table),
		Format:  DetectFormat(table),
	}

	for i := 0; i < len(table) && i < PreviewRows; i++ {
		row := make([]string, ins.Columns)
		for j := range row {
			row[j] = truncate(table.Cell(i, j), PreviewCellSize)
		}
		ins.Preview = append(ins.Preview, row)
	}

	if ins.Format.Detected {
		ins.Recommended = ins.Format.Settings(config.ExcelSettings{})
		ins.Labels = availableColumns(table[ins.Format.HeaderRow])
	}

	return ins, nil
}

func width(table types.RawTable) int {
	n := 0
	for _, row := range table {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
