// Package config holds the question-bank layout and column mapping used by
// every stage of a merge run. A Config is loaded once and not mutated after.
package config

// Config is the complete run configuration.
type Config struct {
	Excel   ExcelSettings  `json:"excel_settings" yaml:"excel_settings"`
	Columns ColumnMapping  `json:"column_mapping" yaml:"column_mapping"`
	Output  OutputSettings `json:"output_settings" yaml:"output_settings"`

	// FilePatterns are globs resolved against the input directory.
	FilePatterns []string `json:"file_patterns" yaml:"file_patterns"`
}

// ExcelSettings describes where the header and data live inside a sheet.
// All indices are 0-based row numbers.
type ExcelSettings struct {
	HasHeaderRow bool `json:"has_header_row" yaml:"has_header_row"`

	// HeaderRowIndex is the row holding column labels.
	HeaderRowIndex int `json:"header_row_index" yaml:"header_row_index"`

	// DataStartRow is the first data row when SkipDescriptionRow is set.
	DataStartRow int `json:"data_start_row" yaml:"data_start_row"`

	// SkipDescriptionRow marks sheets with a free-text instruction row above the header.
	SkipDescriptionRow bool `json:"skip_description_row" yaml:"skip_description_row"`

	DescriptionRowIndex int `json:"description_row_index" yaml:"description_row_index"`
}

// ColumnMapping maps logical fields to the literal header labels in a sheet.
type ColumnMapping struct {
	QuestionType  string   `json:"question_type" yaml:"question_type"`
	QuestionText  string   `json:"question_text" yaml:"question_text"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"`
	Analysis      string   `json:"analysis" yaml:"analysis"`
	Score         string   `json:"score" yaml:"score"`
	Difficulty    string   `json:"difficulty" yaml:"difficulty"`
	Options       []string `json:"options" yaml:"options"`

	// SourceFile labels the column that records each row's file stem.
	SourceFile string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
}

// OutputSettings controls the merged outputs.
type OutputSettings struct {
	ExcelFilename     string `json:"excel_filename" yaml:"excel_filename"`
	WordFilename      string `json:"word_filename" yaml:"word_filename"`
	IncludeAnalysis   bool   `json:"include_analysis" yaml:"include_analysis"`
	IncludeDifficulty bool   `json:"include_difficulty" yaml:"include_difficulty"`

	// Language selects the document's fixed labels: "zh" (default) or "en".
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

const DefaultSourceColumn = "来源文件"

// Preset names accepted by ByName.
const (
	PresetChinese  = "chinese"
	PresetStandard = "standard"
)

// Default returns the built-in configuration for Chinese question-bank
// exports: one description row, header on row 1, data from row 2.
func Default() Config {
	return Config{
		Excel: ExcelSettings{
			HasHeaderRow:        true,
			HeaderRowIndex:      1,
			DataStartRow:        2,
			SkipDescriptionRow:  true,
			DescriptionRowIndex: 0,
		},
		Columns: ColumnMapping{
			QuestionType:  "题型",
			QuestionText:  "题干",
			CorrectAnswer: "正确答案",
			Analysis:      "解析",
			Score:         "分值",
			Difficulty:    "难度系数",
			Options:       []string{"选项A", "选项B", "选项C", "选项D", "选项E"},
			SourceFile:    DefaultSourceColumn,
		},
		Output: OutputSettings{
			ExcelFilename:     "merged_questions.xlsx",
			WordFilename:      "merged_questions.docx",
			IncludeAnalysis:   true,
			IncludeDifficulty: true,
		},
		FilePatterns: []string{
			"*_习题导出.xlsx",
			"*questions*.xlsx",
			"*题库*.xlsx",
			"*.xlsx",
		},
	}
}

// Standard returns a configuration for plain English sheets whose first
// row is the header.
func Standard() Config {
	cfg := Default()
	cfg.Excel = ExcelSettings{
		HasHeaderRow:   true,
		HeaderRowIndex: 0,
		DataStartRow:   1,
	}
	cfg.Columns = ColumnMapping{
		QuestionType:  "Question Type",
		QuestionText:  "Question",
		CorrectAnswer: "Answer",
		Analysis:      "Analysis",
		Score:         "Score",
		Difficulty:    "Difficulty",
		Options:       []string{"Option A", "Option B", "Option C", "Option D"},
		SourceFile:    "Source File",
	}
	cfg.Output.Language = "en"
	cfg.FilePatterns = []string{"*.xlsx", "*.csv"}
	return cfg
}

// ByName returns the named preset.
func ByName(name string) (Config, bool) {
	switch name {
	case PresetChinese, "":
		return Default(), true
	case PresetStandard:
		return Standard(), true
	}
	return Config{}, false
}

// SourceColumn returns the label used for the source-file column.
func (c Config) SourceColumn() string {
	if c.Columns.SourceFile == "" {
		return DefaultSourceColumn
	}
	return c.Columns.SourceFile
}

// OrderedColumns returns every configured label in output order: source,
// required fields, optional fields, then options. Empty labels are skipped.
func (c Config) OrderedColumns() []string {
	m := c.Columns
	labels := []string{c.SourceColumn(), m.QuestionType, m.QuestionText, m.CorrectAnswer, m.Analysis, m.Score, m.Difficulty}
	labels = append(labels, m.Options...)

	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// Clone returns a deep copy so callers can derive variants without
// touching a shared Config.
func (c Config) Clone() Config {
	out := c
	out.Columns.Options = append([]string(nil), c.Columns.Options...)
	out.FilePatterns = append([]string(nil), c.FilePatterns...)
	return out
}
