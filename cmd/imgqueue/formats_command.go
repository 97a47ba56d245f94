package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/imgqueue/internal/imagefile"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List accepted input types and output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(imagefile.SupportedExtensions()))
			for _, ext := range imagefile.SupportedExtensions() {
				output := "no"
				if format, err := imagefile.ParseFormat(ext); err == nil {
					output = "yes"
					if string(format) != ext {
						output = "as " + string(format)
					}
				}
				rows = append(rows, []string{ext, imagefile.Label(ext), "yes", output})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Extension", "Label", "Input", "Output"}, rows, nil))
			return nil
		},
	}
}
