// Package cli wires the quizmerge commands.
package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/nconklindev/quizmerge/internal/config"
	"github.com/nconklindev/quizmerge/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const DefaultConfigPath = "config/config.json"

type globalFlags struct {
	configPath string
	preset     string
	logLevel   string
	logFormat  string
	version    string
}

// NewRootCommand builds the command tree. With no subcommand the root
// starts the interactive mode.
func NewRootCommand(version string) *cobra.Command {
	g := &globalFlags{version: version}

	root := &cobra.Command{
		Use:           "quizmerge",
		Short:         "Merge exam question-bank spreadsheets into one workbook and document",
		Long: `quizmerge merges exam question-bank spreadsheets into one workbook and
one document. Without a subcommand it starts the interactive mode; see
"quizmerge interactive --help" for how --preset and --config apply there.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(g.logLevel, g.logFormat, cmd.ErrOrStderr())
			if _, ok := config.ByName(g.preset); !ok {
				return errors.New("unknown preset " + g.preset + " (want chinese or standard)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(g)
		},
	}

	loadDotEnv()

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", envOr("QUIZMERGE_CONFIG", DefaultConfigPath), "configuration file (JSON or YAML)")
	pf.StringVar(&g.preset, "preset", config.PresetChinese, "built-in layout used when the config file is absent: chinese or standard")
	pf.StringVar(&g.logLevel, "log-level", envOr("QUIZMERGE_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", envOr("QUIZMERGE_LOG_FORMAT", "text"), "log format: text or json")

	root.AddCommand(
		newMergeCommand(g),
		newInspectCommand(),
		newConfigCommand(g),
		newInteractiveCommand(g),
	)

	return root
}

// loadConfig resolves the configuration for a command.
func (g *globalFlags) loadConfig() config.LoadResult {
	base, _ := config.ByName(g.preset)
	return config.LoadWithBase(g.configPath, base)
}

// loadDotEnv reads .env from the working directory when there is one.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// malformed .env: keep going with the real environment
		os.Stderr.WriteString("quizmerge: ignoring .env: " + err.Error() + "\n")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
