package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/oriys/orbit/internal/client"
	"github.com/oriys/orbit/internal/config"
	"github.com/oriys/orbit/internal/output"
)

var version = "dev"

const defaultServer = "http://localhost:9000"

var (
	flagServer    string
	flagAPIKey    string
	flagTenant    string
	flagNamespace string
	flagOutput    string
	flagVerbose   bool
)

func main() {
	// Interrupts cancel the command context so long-lived commands, watch
	// mode included, unwind instead of dying mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "orbit",
		Short:         "CLI for the Nova serverless platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if flagVerbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		},
	}

	root.PersistentFlags().StringVar(&flagServer, "server", "", "Nova server URL")
	root.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "API key for authentication")
	root.PersistentFlags().StringVar(&flagTenant, "tenant", "", "Tenant ID")
	root.PersistentFlags().StringVar(&flagNamespace, "namespace", "", "Namespace")
	root.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output format: table, wide, json, yaml")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose diagnostics on stderr")

	root.AddCommand(
		functionsCmd(),
		runtimesCmd(),
		healthCmd(),
		configCmd(),
		versionCmd(),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		output.Errorf("%v", err)
		os.Exit(1)
	}
}

// newClient resolves connection settings with flag > environment > config
// file > default precedence and returns the client plus the output format.
func newClient() (*client.Client, output.Format, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, output.FormatTable, err
	}

	opts := client.Options{
		Server:    resolve(flagServer, "NOVA_URL", cfg.Server, defaultServer),
		APIKey:    resolve(flagAPIKey, "NOVA_API_KEY", cfg.APIKey, ""),
		Tenant:    resolve(flagTenant, "NOVA_TENANT", cfg.Tenant, ""),
		Namespace: resolve(flagNamespace, "NOVA_NAMESPACE", cfg.Namespace, ""),
	}
	format := output.ParseFormat(resolve(flagOutput, "NOVA_OUTPUT", cfg.Output, "table"))
	return client.New(opts), format, nil
}

func resolve(flagVal, envKey, cfgVal, fallback string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if cfgVal != "" {
		return cfgVal
	}
	return fallback
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("orbit %s\n", version)
		},
	}
}
