package main

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/oriys/orbit/internal/engine"
	"github.com/oriys/orbit/internal/output"
	"github.com/oriys/orbit/internal/watch"
)

var pullColumns = []output.Column{
	output.Col("Name", "name"),
	output.Col("Runtime", "runtime"),
	output.Col("Handler", "handler"),
	output.Col("Source", "source_path"),
	output.Col("Payload", "payload_path"),
	output.Col("Test", "test_status"),
	output.Wide("Dir", "dir"),
	output.Wide("Metadata", "meta_path"),
}

func fnPullCmd() *cobra.Command {
	var (
		dir         string
		force       bool
		runTest     bool
		payload     string
		payloadFile string
		watchMode   bool
	)
	cmd := &cobra.Command{
		Use:   "pull <name>",
		Short: "Pull a function's code and run it locally",
		Long: `Pull downloads a function's source code and metadata into a local
directory, then optionally runs the handler against a JSON payload using
the locally installed toolchain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchMode && !runTest {
				return fmt.Errorf("use --watch together with --test")
			}

			c, format, err := newClient()
			if err != nil {
				return err
			}

			opts := engine.PullOptions{
				Name:        args[0],
				OutputDir:   dir,
				Force:       force,
				RunTest:     runTest,
				Payload:     payload,
				PayloadFile: payloadFile,
			}

			result, err := engine.Pull(cmd.Context(), c, opts)
			if err != nil {
				return err
			}
			if err := renderPull(result, format); err != nil {
				return err
			}
			if !watchMode {
				return nil
			}
			return watchAndRetest(cmd, result)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", engine.DefaultOutputDir, "Directory to pull into")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing local copy")
	cmd.Flags().BoolVarP(&runTest, "test", "t", false, "Run the function locally after pulling")
	cmd.Flags().StringVarP(&payload, "payload", "p", "", "JSON payload for the local run")
	cmd.Flags().StringVar(&payloadFile, "payload-file", "", "Path to a JSON payload file")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-run the local test when the pulled source changes")
	return cmd
}

func renderPull(result *engine.PullResult, format output.Format) error {
	if format == output.FormatJSON || format == output.FormatYAML {
		return output.RenderSingle(result, nil, format)
	}

	if err := output.RenderSingle(result, pullColumns, format); err != nil {
		return err
	}
	if result.HashMismatch {
		output.Warn("local source hash does not match the recorded code hash")
	}
	switch result.TestStatus {
	case engine.TestExecuted:
		output.Success("Local run succeeded (%s)", result.TestCommand)
		if result.TestOutput != "" {
			fmt.Println(result.TestOutput)
		}
	case engine.TestSkipped:
		output.Warn("local test skipped: %s", result.TestReason)
	}
	return nil
}

// watchAndRetest re-runs the local test whenever the pulled directory
// changes. It blocks until interrupted.
func watchAndRetest(cmd *cobra.Command, result *engine.PullResult) error {
	fmt.Printf("Watching %s for changes (Ctrl+C to stop)...\n", result.Dir)

	w, err := watch.New(result.Dir, func() {
		outcome, err := engine.Retest(cmd.Context(), result)
		if err != nil {
			output.Errorf("%v", err)
			return
		}
		if outcome.Executed {
			output.Success("Local run succeeded (%s)", outcome.Command)
			if outcome.Output != "" {
				fmt.Println(outcome.Output)
			}
		} else {
			output.Warn("local test skipped: %s", outcome.Reason)
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", result.Dir, err)
	}
	defer w.Close()

	log.Debug().Str("dir", filepath.Clean(result.Dir)).Msg("watch started")
	return w.Run(cmd.Context())
}
