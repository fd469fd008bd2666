package main

import (
	"github.com/spf13/cobra"

	"github.com/oriys/orbit/internal/output"
)

var runtimeColumns = []output.Column{
	output.Col("ID", "id"),
	output.Col("Language", "language"),
	output.Col("Version", "version"),
	output.Col("Status", "status"),
	output.Wide("Image", "image"),
}

func runtimesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "runtimes",
		Aliases: []string{"rt"},
		Short:   "Manage runtimes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available runtimes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := newClient()
			if err != nil {
				return err
			}
			result, err := c.Get(cmd.Context(), "/runtimes")
			if err != nil {
				return err
			}
			return output.Render(result, runtimeColumns, format)
		},
	})
	return cmd
}
