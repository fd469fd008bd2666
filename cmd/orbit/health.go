package main

import (
	"github.com/spf13/cobra"

	"github.com/oriys/orbit/internal/output"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server's health",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := newClient()
			if err != nil {
				return err
			}
			result, err := c.Get(cmd.Context(), "/healthz")
			if err != nil {
				return err
			}
			return output.RenderSingle(result, []output.Column{
				output.Col("Status", "status"),
				output.Col("Version", "version"),
			}, format)
		},
	}
}
