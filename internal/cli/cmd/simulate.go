package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-variants/internal/cli"
)

func addSimulationFlags(cmd *cobra.Command, in *cli.SimulationInput) {
	flags := cmd.Flags()
	flags.StringToStringVar(&in.Storage, "storage", nil, "localStorage entries, key=value")
	flags.BoolVar(&in.StorageDisabled, "storage-disabled", false, "make localStorage throw")
	flags.StringVar(&in.Cookie, "cookie", "", `document.cookie, "a=1; b=2"`)
	flags.StringVar(&in.URL, "url", "", "page URL providing location.search")
	flags.StringToStringVar(&in.Media, "media", nil, "media features, e.g. prefers-color-scheme=dark,width=390")
	flags.StringVar(&in.Engine, "engine", "expr", "media query engine: expr or cel")
}

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	in := &cli.SimulationInput{}
	cmd := &cobra.Command{
		Use:   "simulate [key...]",
		Short: "Run bootstrap scripts against a simulated browser",
		Long: `Run the bootstrap scripts in a JavaScript runtime with the given storage,
cookies, URL and media features, and print the root attributes they set.`,
		Example: `  variants simulate --storage theme-choice=dark
  variants simulate color-scheme --media prefers-color-scheme=dark --engine cel`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := selected(opts, args)
			if err != nil {
				return err
			}
			attrs, err := cli.Simulate(defs, *in)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(attrs))
			for name := range attrs {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", name, attrs[name])
			}
			return nil
		},
	}
	addSimulationFlags(cmd, in)
	return cmd
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	in := &cli.SimulationInput{}
	var attrs map[string]string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show which blocks the stylesheets display",
		Long: `Render the preview page, simulate the bootstrap scripts and cascade the
generated stylesheets to list the visible block of every definition.

--attr sets root attributes directly and wins over simulated values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := opts.app.Registry()
			if err != nil {
				return err
			}
			root, err := cli.Simulate(reg.Definitions(), *in)
			if err != nil {
				return err
			}
			for name, value := range attrs {
				root[name] = value
			}
			report, err := cli.InspectPage(cmd.Context(), reg, root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range report.IDs() {
				visible := report.Visible(id)
				if len(visible) == 0 {
					visible = []string{"<none>"}
				}
				fmt.Fprintf(out, "%s: %v\n", id, visible)
			}
			return nil
		},
	}
	addSimulationFlags(cmd, in)
	cmd.Flags().StringToStringVar(&attrs, "attr", nil, "root attributes, e.g. data-theme-choice=dark")
	return cmd
}
