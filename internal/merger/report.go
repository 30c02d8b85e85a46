package merger

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/types"
)

// Count is one bucket of a breakdown.
type Count struct {
	Key   string
	Count int
}

// MissingAnswers counts rows whose answer cell is empty.
type MissingAnswers struct {
	Count   int
	Percent float64
}

// Report is a read-only summary of a merged dataset.
type Report struct {
	Total    int
	BySource []Count

	// ByType is nil when the dataset has no question-type column.
	ByType []Count

	// Missing is nil when the dataset has no answer column.
	Missing *MissingAnswers
}

// BuildReport summarises ds. Breakdowns are ordered by count, largest
// first, with ties in order of first appearance.
func BuildReport(ds *types.Table, cfg config.Config) Report {
	r := Report{Total: ds.Len()}
	if ds == nil {
		return r
	}

	r.BySource = countBy(ds, cfg.SourceColumn())

	if ds.HasColumn(cfg.Columns.QuestionType) {
		r.ByType = countBy(ds, cfg.Columns.QuestionType)
	}

	if answer := cfg.Columns.CorrectAnswer; ds.HasColumn(answer) {
		missing := 0
		for _, row := range ds.Rows {
			if strings.TrimSpace(row[answer]) == "" {
				missing++
			}
		}
		r.Missing = &MissingAnswers{Count: missing, Percent: percent(missing, r.Total)}
	}

	return r
}

func countBy(ds *types.Table, column string) []Count {
	idx := make(map[string]int)
	var counts []Count
	for _, row := range ds.Rows {
		key := row[column]
		i, ok := idx[key]
		if !ok {
			i = len(counts)
			idx[key] = i
			counts = append(counts, Count{Key: key})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count > counts[b].Count
	})
	return counts
}

// percent returns part/total as a percentage rounded to one decimal place.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// Format renders the report as indented plain text.
func (r Report) Format() string {
	var s strings.Builder

	fmt.Fprintf(&s, "Total questions: %d\n", r.Total)

	s.WriteString("By source:\n")
	for _, c := range r.BySource {
		fmt.Fprintf(&s, "  %s: %d\n", c.Key, c.Count)
	}

	if r.ByType != nil {
		s.WriteString("By type:\n")
		for _, c := range r.ByType {
			fmt.Fprintf(&s, "  %s: %d\n", c.Key, c.Count)
		}
	}

	if r.Missing != nil {
		s.WriteString("Missing answers:\n")
		fmt.Fprintf(&s, "  count: %d\n", r.Missing.Count)
		fmt.Fprintf(&s, "  ratio: %.1f%%\n", r.Missing.Percent)
	}

	return s.String()
}
