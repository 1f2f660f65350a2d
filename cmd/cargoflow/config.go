// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/invowk/cargoflow/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `cargoflow config` command tree.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect cargoflow configuration",
		Long: `Inspect cargoflow configuration.

Configuration is read from the first of:
  - the file given with --config
  - ./cargoflow.cue in the crate directory
  - the user config directory (e.g. ~/.config/cargoflow/config.cue)

CARGOFLOW_* environment variables override file values, for example
CARGOFLOW_RELEASE_REMOTE=origin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file that would be read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(config.LoadOptions{
				ConfigFilePath: flags.configPath,
				BaseDir:        flags.dir,
			})
			if err != nil {
				return failure(err)
			}
			if path == "" {
				fmt.Fprintln(app.stdout, WarningStyle.Render("(using defaults)"))
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, flags *globalFlags) error {
	s, err := app.newSession(ctx, flags)
	if err != nil {
		return failure(err)
	}

	source := s.cfgPath
	if source == "" {
		source = "(using defaults)"
	}
	content, err := config.GenerateCUE(s.cfg)
	if err != nil {
		return failure(err)
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Configuration"))
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Source: ")+source)
	fmt.Fprintln(app.stdout)
	fmt.Fprint(app.stdout, content)
	return nil
}
