package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/meysamhadeli/promptcat/version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newVersionCmd() *cobra.Command {
	var format string

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of promptcat.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()

			switch format {
			case formatText:
				fmt.Fprintln(out, info.String())
			case formatJSON:
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case formatYAML:
				data, err := yaml.Marshal(info)
				if err != nil {
					return err
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unknown format %q (use text, json or yaml)", format)
			}
			return nil
		},
	}

	versionCmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: 'text', 'json' or 'yaml'.")
	return versionCmd
}
