package cli

import (
	"github.com/nconklindev/quizmerge/internal/logging"
	"github.com/nconklindev/quizmerge/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newInteractiveCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"ui"},
		Short:   "Pick a layout, files and outputs in a terminal UI, then merge",
		Long: `Interactive mode asks for the layout, the input directory, which of the
matching files to merge and which outputs to write.

--preset selects the layout highlighted first, and --config is the file
read for that layout. The other built-in layout reads its own file
(config/config.json for chinese, config/config_standard.json for
standard), and the custom choice reads the file you pick. Output files use
the configured names.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(g)
		},
	}
}

func runInteractive(g *globalFlags) error {
	logging.Discard()

	model := ui.InitialModel(ui.Options{
		ConfigPath: g.configPath,
		Preset:     g.preset,
		Version:    g.version,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
