// Package cmd provides the cobra commands of the variants CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-variants/internal/cli"
	"github.com/goliatone/go-variants/internal/logging"
)

type rootOptions struct {
	configFile  string
	definitions string
	logLevel    string
	logFormat   string

	app *cli.App
}

// NewRootCmd builds the command tree. Each call returns independent state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "variants",
		Short: "Generate and check flash-free variant assets",
		Long: `variants turns variant definitions into the inline bootstrap script and
scoped stylesheet that select the right block before first paint.

Definitions live in a JSON, YAML or TOML document:

  {"variants": [{"key": "theme-choice", "options": ["light", "dark", "system"],
    "default": "system", "read": {"type": "localStorage", "key": "theme-choice"}}]}

Configuration is read from --config, variants.config.{toml,yaml,json} in the
working directory and VARIANTS_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "schema":
				return nil
			}
			app, err := cli.NewApp(cli.Options{
				ConfigFile:  opts.configFile,
				Definitions: opts.definitions,
				LogLevel:    opts.logLevel,
				LogFormat:   opts.logFormat,
				LogConfig:   logging.Config{Out: cmd.ErrOrStderr()},
			})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			opts.app = app
			cmd.SetContext(logging.WithContext(cmd.Context(), app.Logger))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "configuration file")
	flags.StringVarP(&opts.definitions, "definitions", "d", "", "definitions document (default variants.json)")
	flags.StringVar(&opts.logLevel, "log-level", "", "trace, debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "console or json")

	rootCmd.AddCommand(
		newScriptCmd(opts),
		newCSSCmd(opts),
		newSimulateCmd(opts),
		newInspectCmd(opts),
		newSchemaCmd(),
		newServeCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
