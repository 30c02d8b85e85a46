// Package writer serializes a merged dataset to a spreadsheet and to a
// formatted document.
package writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/nconklindev/quizmerge/internal/types"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNoData = errors.New("no data to write")

	// ErrOutputDir means the output directory could not be created. It is
	// the one failure that aborts a run.
	ErrOutputDir = errors.New("cannot create output directory")
)

// decimalText matches the plain decimals that are written as number cells.
var decimalText = regexp.MustCompile(`^-?(0|[1-9][0-9]{0,14})(\.([0-9]{1,6}))?$`)

// WriteExcel writes ds to a single-sheet workbook: column labels on the
// first row, then one row per record in dataset order. Cells of the
// numeric columns that hold a plain decimal are stored as numbers with a
// format that shows the original digits, so re-reading gives back the
// same text.
func WriteExcel(outputFile string, ds *types.Table, numeric ...string) error {
	if ds.Len() == 0 {
		return ErrNoData
	}

	if err := EnsureDir(outputFile); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	isNumeric := make(map[string]bool, len(numeric))
	for _, label := range numeric {
		if label != "" {
			isNumeric[label] = true
		}
	}
	styles := numberStyles{f: f}

	for r, row := range ds.Rows {
		values := make([]interface{}, len(ds.Columns))
		var styled []numberCell
		for c, label := range ds.Columns {
			values[c] = row[label]
			if !isNumeric[label] {
				continue
			}
			if v, decimals, ok := parseDecimal(row[label]); ok {
				values[c] = v
				styled = append(styled, numberCell{col: c + 1, decimals: decimals})
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		for _, n := range styled {
			if err := styles.apply(sheet, n.col, r+2, n.decimals); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

type numberCell struct {
	col      int
	decimals int
}

// parseDecimal returns the value of a plain decimal and its number of
// fraction digits.
func parseDecimal(text string) (float64, int, bool) {
	m := decimalText.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, 0, false
	}
	return v, len(m[3]), true
}

// numberStyles caches one fixed-decimals style per fraction width.
type numberStyles struct {
	f   *excelize.File
	ids map[int]int
}

func (s *numberStyles) apply(sheet string, col, row, decimals int) error {
	if decimals == 0 {
		// General already shows integers as written.
		return nil
	}
	id, ok := s.ids[decimals]
	if !ok {
		code := "0." + strings.Repeat("0", decimals)
		var err error
		id, err = s.f.NewStyle(&excelize.Style{CustomNumFmt: &code})
		if err != nil {
			return fmt.Errorf("number style %s: %w", code, err)
		}
		if s.ids == nil {
			s.ids = make(map[int]int)
		}
		s.ids[decimals] = id
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.f.SetCellStyle(sheet, cell, cell, id)
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w %s: %v", ErrOutputDir, dir, err)
	}
	return nil
}
