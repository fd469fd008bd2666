package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/oriys/orbit/internal/config"
	"github.com/oriys/orbit/internal/output"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}
	cmd.AddCommand(configGetCmd(), configSetCmd())
	return cmd
}

func configGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			format := output.ParseFormat(flagOutput)
			// Keep the key out of terminal scrollback; structured output is
			// explicit opt-in.
			if format == output.FormatTable || format == output.FormatWide {
				cfg.APIKey = maskSecret(cfg.APIKey)
			}
			return output.RenderSingle(cfg, []output.Column{
				output.Col("Server", "server"),
				output.Col("API Key", "api_key"),
				output.Col("Tenant", "tenant"),
				output.Col("Namespace", "namespace"),
				output.Col("Output", "output"),
			}, format)
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			output.Success("Set %s.", args[0])
			return nil
		},
	}
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
