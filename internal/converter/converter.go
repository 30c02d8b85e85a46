package converter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/logging"
	"github.com/nconklindev/quizmerge/internal/types"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrEmptyTable      = errors.New("empty file")
)

// ReadOptions tunes how a single input file is read.
type ReadOptions struct {
	// AutoDetect lets the keyword detector override the configured header
	// row for this file when it finds a header.
	AutoDetect bool
}

// IsSupported reports whether path has an extension ReadTable understands.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".xlsm":
		return true
	}
	return false
}

// ReadTable reads every row of the first sheet (or the CSV body) without
// interpreting any of it.
func ReadTable(filePath string) (types.RawTable, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	var (
		rows [][]string
		err  error
	)
	switch ext {
	case ".csv":
		rows, err = readCSVRows(filePath)
	case ".xlsx", ".xlsm":
		rows, err = readXLSXRows(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	return types.RawTable(rows), nil
}

func readCSVRows(filePath string) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, record)
	}

	// Spreadsheet apps prepend a BOM to UTF-8 CSV exports.
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

func readXLSXRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	return rows, nil
}

// SourceName returns the file stem recorded in the source column.
func SourceName(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadFile reads and normalizes one input file. It never fails outright:
// any problem is returned in the result so the caller can skip the file
// and keep going.
func ReadFile(filePath string, cfg config.Config, opts ReadOptions) types.FileResult {
	log := logging.ForFile(filePath)
	log.Info("reading file")

	res := types.FileResult{Path: filePath, Source: SourceName(filePath)}

	table, err := ReadTable(filePath)
	if err != nil {
		res.Err = err
		log.Error("file skipped", "reason", err)
		return res
	}

	if opts.AutoDetect {
		if format := DetectFormat(table); format.Detected {
			cfg = cfg.Clone()
			cfg.Excel = format.Settings(cfg.Excel)
			log.Debug("header detected", "row", format.HeaderRow, "score", format.Score)
		} else {
			log.Debug("no header detected, using configured layout")
		}
	}

	normalized, err := Normalize(table, res.Source, cfg)
	if err != nil {
		res.Err = err
		var missing *MissingColumnError
		if errors.As(err, &missing) {
			log.Error("file skipped", "reason", err, "available_columns", missing.Available)
		} else {
			log.Error("file skipped", "reason", err)
		}
		return res
	}

	res.Table = normalized
	log.Info("file normalized", "rows", normalized.Len())
	return res
}
