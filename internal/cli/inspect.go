package cli

import (
	"fmt"
	"io"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/converter"

	"github.com/spf13/cobra"
)

func newInspectCommand() *cobra.Command {
	var templatePath string

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show a file's first rows and the layout the header detector suggests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := converter.Inspect(args[0])
			if err != nil {
				return fmt.Errorf("inspect %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			printInspection(out, ins)

			if templatePath != "" {
				cfg := config.Default()
				if ins.Format.Detected {
					cfg.Excel = ins.Recommended
				}
				if err := config.WriteTemplate(templatePath, cfg); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nTemplate written to %s; edit column_mapping to match the labels above.\n", templatePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&templatePath, "write-template", "", "write a config template using the suggested layout")
	return cmd
}

func printInspection(out io.Writer, ins *converter.Inspection) {
	fmt.Fprintf(out, "File: %s\n", ins.Path)
	fmt.Fprintf(out, "Rows: %d  Columns: %d\n", ins.Rows, ins.Columns)

	fmt.Fprintf(out, "\nFirst %d rows:\n", len(ins.Preview))
	for i, row := range ins.Preview {
		fmt.Fprintf(out, "\nRow %d:\n", i)
		for j, cell := range row {
			if cell == "" {
				cell = "(empty)"
			}
			fmt.Fprintf(out, "  col %d: %s\n", j, cell)
		}
	}

	fmt.Fprintln(out)
	if !ins.Format.Detected {
		fmt.Fprintln(out, "No header row detected in the first rows; check the file by hand.")
		return
	}

	fmt.Fprintf(out, "Header row: %d (%d keyword matches)\n", ins.Format.HeaderRow, ins.Format.Score)
	fmt.Fprintln(out, "\nSuggested excel_settings:")
	fmt.Fprintf(out, "  \"header_row_index\": %d,\n", ins.Recommended.HeaderRowIndex)
	fmt.Fprintf(out, "  \"data_start_row\": %d,\n", ins.Recommended.DataStartRow)
	fmt.Fprintf(out, "  \"skip_description_row\": %t\n", ins.Recommended.SkipDescriptionRow)

	fmt.Fprintln(out, "\nColumn labels:")
	for i, label := range ins.Labels {
		fmt.Fprintf(out, "  %d: %s\n", i, label)
	}
}
