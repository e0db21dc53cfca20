package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	variants "github.com/goliatone/go-variants"
	"github.com/goliatone/go-variants/internal/cli"
)

func newScriptCmd(opts *rootOptions) *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "script [key...]",
		Short: "Print bootstrap scripts",
		Long: `Print the bootstrap script of each named definition, or of all of them.

With --html the script is printed together with its stylesheet, ready to be
pasted in a document head.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := selected(opts, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, def := range defs {
				if html {
					if err := variants.Assets(def).Render(cmd.Context(), out); err != nil {
						return err
					}
					fmt.Fprintln(out)
					continue
				}
				fmt.Fprintln(out, variants.Script(def))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "print <script> and <style> elements")
	return cmd
}

func newCSSCmd(opts *rootOptions) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "css [key...]",
		Short: "Print scoped stylesheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := selected(opts, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, def := range defs {
				css := variants.CSS(def, def.ID())
				if pretty {
					fmt.Fprintf(out, "/* %s */\n%s\n", def.ID(), strings.ReplaceAll(css, "}", "}\n"))
					continue
				}
				fmt.Fprintln(out, css)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "one rule per line with an identifier header")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the definitions document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := variants.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func selected(opts *rootOptions, keys []string) ([]variants.Definition, error) {
	reg, err := opts.app.Registry()
	if err != nil {
		return nil, err
	}
	return cli.SelectDefinitions(reg, keys)
}
