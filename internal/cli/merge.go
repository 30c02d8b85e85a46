package cli

import (
	"fmt"
	"io"

	"github.com/nconklindev/quizmerge/internal/pipeline"
	"github.com/nconklindev/quizmerge/internal/writer"

	"github.com/spf13/cobra"
)

func newMergeCommand(g *globalFlags) *cobra.Command {
	var (
		req       pipeline.Request
		wordOnly  bool
		excelOnly bool
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge every matching question bank in a directory",
		Long: `Merge reads every spreadsheet in the input directory that matches the
configured file patterns (or --pattern), normalizes each one with the
configured column mapping, prints a summary and writes the merged
spreadsheet and document.

Example: quizmerge merge --input ./banks --output-excel out/all.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.SkipExcel = wordOnly
			req.SkipWord = excelOnly
			return runMerge(cmd.OutOrStdout(), g, req)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&req.InputDir, "input", "i", ".", "directory holding the question bank files")
	f.StringVarP(&req.Pattern, "pattern", "p", "", "file pattern, overrides file_patterns from the config")
	f.StringVar(&req.ExcelPath, "output-excel", "", "spreadsheet output path (default from config)")
	f.StringVar(&req.WordPath, "output-word", "", "document output path (default from config)")
	f.BoolVar(&wordOnly, "word-only", false, "only write the document")
	f.BoolVar(&excelOnly, "excel-only", false, "only write the spreadsheet")
	f.BoolVar(&req.AutoDetect, "auto-detect", false, "detect each file's header row instead of trusting the configured layout")
	cmd.MarkFlagsMutuallyExclusive("word-only", "excel-only")

	return cmd
}

func runMerge(out io.Writer, g *globalFlags, req pipeline.Request) error {
	loaded := g.loadConfig()
	if loaded.Fallback {
		fmt.Fprintf(out, "Config %s not used (%v); using built-in %s layout\n", loaded.Path, loaded.Err, g.preset)
	}

	runner := &pipeline.Runner{
		Config: loaded.Config,
		Docs:   writer.NewDocumentWriter(loaded.Config),
	}

	outcome, err := runner.Run(req)
	if outcome != nil {
		for _, f := range outcome.Merge.Skipped() {
			fmt.Fprintf(out, "Skipped %s: %s\n", f.Path, f.Reason())
		}
	}
	if err != nil {
		return fmt.Errorf("nothing written: %w", err)
	}

	fmt.Fprintf(out, "\nMerged %d questions from %d file(s)\n\n", outcome.Report.Total, outcome.Merge.FilesUsed())
	fmt.Fprint(out, outcome.Report.Format())
	fmt.Fprintln(out)

	if outcome.ExcelFile != "" {
		fmt.Fprintf(out, "Spreadsheet: %s\n", outcome.ExcelFile)
	} else if outcome.ExcelErr != nil {
		fmt.Fprintf(out, "Spreadsheet not written: %v\n", outcome.ExcelErr)
	}
	if outcome.WordFile != "" {
		fmt.Fprintf(out, "Document:    %s\n", outcome.WordFile)
	} else if outcome.WordErr != nil {
		fmt.Fprintf(out, "Document not written: %v\n", outcome.WordErr)
	}

	return nil
}
