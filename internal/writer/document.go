package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/types"
)

// ErrDocumentUnavailable is returned when no document backend is configured.
var ErrDocumentUnavailable = errors.New("document output is not available")

// Run is a span of paragraph text.
type Run struct {
	Text string
	Bold bool
}

// Document is the rich-text capability the document writer renders into.
type Document interface {
	AddTitle(text string) error
	AddHeading(text string, level int) error
	AddParagraph(runs ...Run)
	AddPageBreak()
	Save(path string) error
}

// DocumentFactory creates an empty Document. A nil factory means the
// capability is absent.
type DocumentFactory func() (Document, error)

// Labels are the fixed strings printed around question content.
type Labels struct {
	Title      string
	Total      string // format with the question count
	Answer     string
	Analysis   string
	Difficulty string
}

var (
	ChineseLabels = Labels{
		Title:      "题库汇总文档",
		Total:      "总计 %d 道题目",
		Answer:     "正确答案：",
		Analysis:   "解析：",
		Difficulty: "难度系数：",
	}
	EnglishLabels = Labels{
		Title:      "Question Bank",
		Total:      "%d questions in total",
		Answer:     "Answer: ",
		Analysis:   "Analysis: ",
		Difficulty: "Difficulty: ",
	}
)

// LabelsFor picks labels by language code.
func LabelsFor(lang string) Labels {
	if strings.HasPrefix(strings.ToLower(lang), "en") {
		return EnglishLabels
	}
	return ChineseLabels
}

// DocumentWriter renders a merged dataset grouped by source file.
type DocumentWriter struct {
	New    DocumentFactory
	Config config.Config
}

// NewDocumentWriter returns a writer using the docx backend.
func NewDocumentWriter(cfg config.Config) *DocumentWriter {
	return &DocumentWriter{New: NewDocx, Config: cfg}
}

// Available reports whether the document capability is present.
func (w *DocumentWriter) Available() bool {
	return w != nil && w.New != nil
}

// Write renders ds to outputFile. When the capability is absent it writes
// nothing and returns ErrDocumentUnavailable.
func (w *DocumentWriter) Write(outputFile string, ds *types.Table) error {
	if !w.Available() {
		return ErrDocumentUnavailable
	}
	if ds.Len() == 0 {
		return ErrNoData
	}

	doc, err := w.New()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentUnavailable, err)
	}

	if err := w.render(doc, ds); err != nil {
		return err
	}

	if err := EnsureDir(outputFile); err != nil {
		return err
	}
	if err := doc.Save(outputFile); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (w *DocumentWriter) render(doc Document, ds *types.Table) error {
	cfg := w.Config
	labels := LabelsFor(cfg.Output.Language)
	source := cfg.SourceColumn()

	if err := doc.AddTitle(labels.Title); err != nil {
		return err
	}
	doc.AddParagraph(Run{Text: fmt.Sprintf(labels.Total, ds.Len())})

	// One section per distinct source, in order of first appearance. A
	// source split across the dataset is gathered under its one heading.
	var order []string
	groups := make(map[string][]types.Row)
	for _, row := range ds.Rows {
		key := row[source]
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row)
	}

	n := 0
	for _, key := range order {
		doc.AddPageBreak()
		if err := doc.AddHeading(key, 1); err != nil {
			return err
		}
		for _, row := range groups[key] {
			n++
			w.renderQuestion(doc, n, row, labels)
		}
	}

	return nil
}

func (w *DocumentWriter) renderQuestion(doc Document, n int, row types.Row, labels Labels) {
	cfg := w.Config
	cols := cfg.Columns

	doc.AddParagraph(
		Run{Text: fmt.Sprintf("%d. ", n), Bold: true},
		Run{Text: fmt.Sprintf("[%s] ", row[cols.QuestionType])},
		Run{Text: row[cols.QuestionText]},
	)

	// Letters follow the configured option position, so a blank
	// option B still leaves the next one as C.
	for j, opt := range cols.Options {
		if v := row[opt]; v != "" {
			doc.AddParagraph(Run{Text: fmt.Sprintf("%c. ", 'A'+j), Bold: true}, Run{Text: v})
		}
	}

	if v := row[cols.CorrectAnswer]; v != "" {
		doc.AddParagraph(Run{Text: labels.Answer, Bold: true}, Run{Text: v})
	}

	if cfg.Output.IncludeAnalysis && cols.Analysis != "" {
		if v := row[cols.Analysis]; v != "" {
			doc.AddParagraph(Run{Text: labels.Analysis, Bold: true}, Run{Text: v})
		}
	}

	if cfg.Output.IncludeDifficulty && cols.Difficulty != "" {
		if v := row[cols.Difficulty]; v != "" {
			doc.AddParagraph(Run{Text: labels.Difficulty, Bold: true}, Run{Text: v})
		}
	}

	doc.AddParagraph()
}
