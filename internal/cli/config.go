package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nconklindev/quizmerge/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or show configuration files",
	}

	cmd.AddCommand(newConfigInitCommand(g), newConfigShowCommand(g))
	return cmd
}

func newConfigInitCommand(g *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the preset configuration as an editable template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configPath
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg, _ := config.ByName(g.preset)
			if err := config.WriteTemplate(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s configuration to %s\n", g.preset, path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the configuration a merge would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded := g.loadConfig()
			out := cmd.OutOrStdout()
			if loaded.Fallback {
				fmt.Fprintf(out, "# %s not used: %v\n", loaded.Path, loaded.Err)
			}

			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(loaded.Config)
		},
	}
}
