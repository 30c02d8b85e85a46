// Package merger discovers question-bank files, normalizes each one and
// concatenates them into a single dataset.
package merger

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/converter"
	"github.com/nconklindev/quizmerge/internal/types"
)

var (
	ErrNoFiles       = errors.New("no question bank files found")
	ErrNoUsableFiles = errors.New("no file could be read")
)

// Options adjusts a single Merge call.
type Options struct {
	// Files, when non-empty, are the inputs. Discovery and Pattern are
	// skipped; the files are still read in sorted order.
	Files []string

	// Pattern replaces the configured file patterns when non-empty.
	Pattern string

	AutoDetect bool

	// Exclude lists paths that must never be read as input, such as the
	// merged spreadsheet from a previous run.
	Exclude []string

	// Progress receives the fraction of files processed. Sends never block.
	Progress chan<- float64
}

// Result is the outcome of Merge. Err is ErrNoFiles or ErrNoUsableFiles
// when Dataset is empty; per-file failures live in Files.
type Result struct {
	Dataset *types.Table
	Files   []types.FileResult
	Err     error
}

// FilesUsed counts the files that contributed rows.
func (r Result) FilesUsed() int {
	n := 0
	for _, f := range r.Files {
		if !f.Empty() {
			n++
		}
	}
	return n
}

// Skipped returns the files that were excluded from the dataset.
func (r Result) Skipped() []types.FileResult {
	var out []types.FileResult
	for _, f := range r.Files {
		if f.Empty() {
			out = append(out, f)
		}
	}
	return out
}

// Discover resolves patterns against inputDir and returns the matching
// files, deduplicated and sorted. Office lock files, unsupported
// extensions and excluded paths are left out.
func Discover(inputDir string, patterns []string, exclude []string) ([]string, error) {
	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		if p != "" {
			skip[absPath(p)] = true
		}
	}

	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(inputDir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || skip[absPath(m)] {
				continue
			}
			if strings.HasPrefix(filepath.Base(m), "~$") || !converter.IsSupported(m) {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	sort.Strings(files)
	return files, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Merge reads every discovered file in sorted order and concatenates the
// normalized rows. Files that fail or normalize to nothing are skipped.
func Merge(inputDir string, cfg config.Config, opts Options) Result {
	patterns := cfg.FilePatterns
	if opts.Pattern != "" {
		patterns = []string{opts.Pattern}
	}

	res := Result{Dataset: &types.Table{}}

	var files []string
	if len(opts.Files) > 0 {
		files = append(files, opts.Files...)
		sort.Strings(files)
	} else {
		found, err := Discover(inputDir, patterns, opts.Exclude)
		if err != nil {
			res.Err = err
			return res
		}
		files = found
	}
	if len(files) == 0 {
		slog.Warn("no question bank files found", "dir", inputDir, "patterns", patterns)
		res.Err = ErrNoFiles
		return res
	}

	slog.Info("files found", "count", len(files))

	for i, file := range files {
		fr := converter.ReadFile(file, cfg, converter.ReadOptions{AutoDetect: opts.AutoDetect})
		res.Files = append(res.Files, fr)
		if !fr.Empty() {
			res.Dataset.Append(fr.Table)
		}

		if opts.Progress != nil {
			select {
			case opts.Progress <- float64(i+1) / float64(len(files)):
			default:
			}
		}
	}

	if res.Dataset.Len() == 0 {
		slog.Warn("no file could be read", "files", len(files))
		res.Err = ErrNoUsableFiles
		return res
	}

	slog.Info("merge complete", "rows", res.Dataset.Len(), "files_used", res.FilesUsed())
	return res
}

// QuestionBankKeywords mark a file name as a question bank.
var QuestionBankKeywords = []string{"题", "questions", "章节", "chapter", "quiz", "test"}

// FilterByKeywords keeps the files whose base name contains any keyword,
// ignoring case.
func FilterByKeywords(files []string, keywords []string) []string {
	var out []string
	for _, f := range files {
		name := strings.ToLower(filepath.Base(f))
		for _, k := range keywords {
			if strings.Contains(name, strings.ToLower(k)) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
