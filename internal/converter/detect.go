package converter

import (
	"strings"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/types"
)

// DetectionRowLimit is how many leading rows DetectFormat inspects.
const DetectionRowLimit = 5

// HeaderKeywords are matched case-insensitively as substrings of cells.
var HeaderKeywords = []string{"题型", "题干", "问题", "question", "answer", "答案", "选项", "option"}

// Format is the detector's guess at a table's layout.
type Format struct {
	Detected  bool
	HeaderRow int
	DataStart int
	// Score is the number of keyword hits on the header row.
	Score int
}

// DetectFormat scores the first DetectionRowLimit rows by keyword hits and
// picks the best one as the header. The earliest row wins a tie. When no
// row scores, Detected is false and the caller falls back to its config.
func DetectFormat(table types.RawTable) Format {
	best := Format{HeaderRow: -1, DataStart: -1}

	for i := 0; i < len(table) && i < DetectionRowLimit; i++ {
		score := RowScore(table[i])
		if score > best.Score {
			best = Format{Detected: true, HeaderRow: i, DataStart: i + 1, Score: score}
		}
	}

	return best
}

// RowScore counts keyword hits across every cell in row. A cell containing
// several keywords counts once per keyword.
func RowScore(row []string) int {
	score := 0
	for _, cell := range row {
		cell = strings.ToLower(strings.TrimSpace(cell))
		if cell == "" {
			continue
		}
		for _, kw := range HeaderKeywords {
			if strings.Contains(cell, kw) {
				score++
			}
		}
	}
	return score
}

// Settings returns base with its layout replaced by the detected one. Rows
// above the header are treated as description rows.
func (f Format) Settings(base config.ExcelSettings) config.ExcelSettings {
	if !f.Detected {
		return base
	}
	out := base
	out.HasHeaderRow = true
	out.HeaderRowIndex = f.HeaderRow
	out.DataStartRow = f.DataStart
	out.SkipDescriptionRow = f.HeaderRow > 0
	out.DescriptionRowIndex = 0
	return out
}
