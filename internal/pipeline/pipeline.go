// Package pipeline runs one merge end to end: discover, normalize,
// concatenate, report, write.
package pipeline

import (
	"errors"
	"log/slog"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/merger"
	"github.com/nconklindev/quizmerge/internal/types"
	"github.com/nconklindev/quizmerge/internal/writer"
)

// Request describes a single run. Empty output paths fall back to the
// configured file names.
type Request struct {
	InputDir   string
	Pattern    string
	AutoDetect bool

	// Files, when set, are merged as given instead of discovering inputs.
	Files []string

	ExcelPath string
	WordPath  string

	SkipExcel bool
	SkipWord  bool

	Progress chan<- float64
}

// Outcome is everything a run produced. ExcelErr and WordErr hold output
// failures that were recovered by skipping that output.
type Outcome struct {
	Merge  merger.Result
	Report merger.Report

	ExcelFile string
	WordFile  string
	ExcelErr  error
	WordErr   error
}

// Summary condenses the outcome for display.
func (o *Outcome) Summary(inputDir string) types.MergeSummary {
	return types.MergeSummary{
		InputDir:   inputDir,
		FilesFound: len(o.Merge.Files),
		FilesUsed:  o.Merge.FilesUsed(),
		Rows:       o.Merge.Dataset.Len(),
		ExcelFile:  o.ExcelFile,
		WordFile:   o.WordFile,
	}
}

// Runner carries the collaborators of a run. Docs may be nil, in which
// case document output is skipped.
type Runner struct {
	Config config.Config
	Docs   *writer.DocumentWriter
}

// Run executes req. It returns an error, with a partially filled Outcome,
// when no usable input exists or an output directory cannot be created.
func (r *Runner) Run(req Request) (*Outcome, error) {
	cfg := r.Config
	excelPath := firstNonEmpty(req.ExcelPath, cfg.Output.ExcelFilename)
	wordPath := firstNonEmpty(req.WordPath, cfg.Output.WordFilename)

	inputDir := firstNonEmpty(req.InputDir, ".")
	res := merger.Merge(inputDir, cfg, merger.Options{
		Files:      req.Files,
		Pattern:    req.Pattern,
		AutoDetect: req.AutoDetect,
		Exclude:    []string{excelPath},
		Progress:   req.Progress,
	})

	out := &Outcome{Merge: res}
	if res.Err != nil {
		return out, res.Err
	}

	out.Report = merger.BuildReport(res.Dataset, cfg)

	// Both directories exist before either file is written.
	if !req.SkipExcel {
		if err := writer.EnsureDir(excelPath); err != nil {
			return out, err
		}
	}
	if !req.SkipWord && r.Docs.Available() {
		if err := writer.EnsureDir(wordPath); err != nil {
			return out, err
		}
	}

	if !req.SkipExcel {
		err := writer.WriteExcel(excelPath, res.Dataset, cfg.Columns.Score, cfg.Columns.Difficulty)
		switch {
		case errors.Is(err, writer.ErrOutputDir):
			return out, err
		case err != nil:
			out.ExcelErr = err
			slog.Error("spreadsheet not written", "path", excelPath, "error", err)
		default:
			out.ExcelFile = excelPath
			slog.Info("spreadsheet written", "path", excelPath)
		}
	}

	if !req.SkipWord {
		err := r.Docs.Write(wordPath, res.Dataset)
		switch {
		case errors.Is(err, writer.ErrOutputDir):
			return out, err
		case errors.Is(err, writer.ErrDocumentUnavailable):
			out.WordErr = err
			slog.Warn("document output skipped", "error", err)
		case err != nil:
			out.WordErr = err
			slog.Error("document not written", "path", wordPath, "error", err)
		default:
			out.WordFile = wordPath
			slog.Info("document written", "path", wordPath)
		}
	}

	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
