package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oriys/orbit/internal/output"
)

var fnColumns = []output.Column{
	output.Col("Name", "name"),
	output.Col("Runtime", "runtime"),
	output.Col("Memory", "memory_mb"),
	output.Col("Timeout", "timeout_s"),
	output.Col("Mode", "mode"),
	output.Wide("Handler", "handler"),
	output.Wide("Version", "version"),
	output.Wide("Created", "created_at"),
}

var fnDetailColumns = []output.Column{
	output.Col("Name", "name"),
	output.Col("Runtime", "runtime"),
	output.Col("Handler", "handler"),
	output.Col("Memory (MB)", "memory_mb"),
	output.Col("Timeout (s)", "timeout_s"),
	output.Col("Mode", "mode"),
	output.Col("Version", "version"),
	output.Col("Code Hash", "code_hash"),
	output.Col("Created", "created_at"),
	output.Col("Updated", "updated_at"),
}

var invokeColumns = []output.Column{
	output.Col("Request ID", "request_id"),
	output.Col("Duration (ms)", "duration_ms"),
	output.Col("Cold Start", "cold_start"),
	output.Col("Output", "output"),
	output.Col("Error", "error"),
}

func functionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "functions",
		Aliases: []string{"fn"},
		Short:   "Manage functions",
	}
	cmd.AddCommand(
		fnCreateCmd(),
		fnListCmd(),
		fnGetCmd(),
		fnUpdateCmd(),
		fnDeleteCmd(),
		fnInvokeCmd(),
		fnCodeCmd(),
		fnLogsCmd(),
		fnPullCmd(),
	)
	return cmd
}

func fnCreateCmd() *cobra.Command {
	var (
		runtimeID string
		handler   string
		code      string
		codePath  string
		memory    int
		timeout   int
		mode      string
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := newClient()
			if err != nil {
				return err
			}

			body := map[string]any{
				"name":    args[0],
				"runtime": runtimeID,
			}
			if codePath != "" {
				data, err := os.ReadFile(codePath)
				if err != nil {
					return fmt.Errorf("cannot read file %s: %w", codePath, err)
				}
				body["code"] = string(data)
			} else if code != "" {
				body["code"] = code
			}
			if handler != "" {
				body["handler"] = handler
			}
			if memory > 0 {
				body["memory_mb"] = memory
			}
			if timeout > 0 {
				body["timeout_s"] = timeout
			}
			if mode != "" {
				body["mode"] = mode
			}

			result, err := c.Post(cmd.Context(), "/functions", body)
			if err != nil {
				return err
			}
			return output.RenderSingle(result, fnDetailColumns, format)
		},
	}
	cmd.Flags().StringVarP(&runtimeID, "runtime", "r", "", "Runtime (python, node, go, rust, java)")
	cmd.Flags().StringVarP(&handler, "handler", "H", "", "Handler entry point")
	cmd.Flags().StringVar(&code, "code", "", "Source code (inline string)")
	cmd.Flags().StringVarP(&codePath, "code-path", "c", "", "Path to code file")
	cmd.Flags().IntVarP(&memory, "memory", "m", 0, "Memory in MB")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", 0, "Timeout in seconds")
	cmd.Flags().StringVar(&mode, "mode", "", "Execution mode (process or persistent)")
	cmd.MarkFlagRequired("runtime")
	return cmd
}

func fnListCmd() *cobra.Command {
	var (
		search string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := newClient()
			if err != nil {
				return err
			}

			path := "/functions"
			sep := "?"
			if search != "" {
				path += sep + "search=" + search
				sep = "&"
			}
			if limit > 0 {
				path += sep + fmt.Sprintf("limit=%d", limit)
			}

			result, err := c.Get(cmd.Context(), path)
			if err != nil {
				return err
			}
			return output.Render(result, fnColumns, format)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Search filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "Limit results")
	return cmd
}

func fnGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Get function details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := newClient()
			if err != nil {
				return err
			}
			result, err := c.Get(cmd.Context(), "/functions/"+args[0])
			if err != nil {
				return err
			}
			return output.RenderSingle(result, fnDetailColumns, format)
		},
	}
}

func fnUpdateCmd() *cobra.Command {
	var (
		handler string
		memory  int
		timeout int
		code    string
		mode    string
	)
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := newClient()
			if err != nil {
				return err
			}

			body := map[string]any{}
			if cmd.Flags().Changed("handler") {
				body["handler"] = handler
			}
			if cmd.Flags().Changed("memory") {
				body["memory_mb"] = memory
			}
			if cmd.Flags().Changed("timeout") {
				body["timeout_s"] = timeout
			}
			if cmd.Flags().Changed("code") {
				body["code"] = code
			}
			if cmd.Flags().Changed("mode") {
				body["mode"] = mode
			}

			result, err := c.Patch(cmd.Context(), "/functions/"+args[0], body)
			if err != nil {
				return err
			}
			return output.RenderSingle(result, fnDetailColumns, format)
		},
	}
	cmd.Flags().StringVarP(&handler, "handler", "H", "", "Handler entry point")
	cmd.Flags().IntVarP(&memory, "memory", "m", 0, "Memory in MB")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", 0, "Timeout in seconds")
	cmd.Flags().StringVar(&code, "code", "", "Source code (inline string)")
	cmd.Flags().StringVar(&mode, "mode", "", "Execution mode")
	return cmd
}

func fnDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient()
			if err != nil {
				return err
			}
			if _, err := c.Delete(cmd.Context(), "/functions/"+args[0]); err != nil {
				return err
			}
			output.Success("Function '%s' deleted.", args[0])
			return nil
		},
	}
}

func fnInvokeCmd() *cobra.Command {
	var (
		payload     string
		payloadFile string
	)
	cmd := &cobra.Command{
		Use:   "invoke <name>",
		Short: "Invoke a function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := newClient()
			if err != nil {
				return err
			}

			body, err := resolveJSONPayload(payload, payloadFile)
			if err != nil {
				return err
			}

			result, err := c.Post(cmd.Context(), "/functions/"+args[0]+"/invoke", body)
			if err != nil {
				return err
			}
			return output.RenderSingle(result, invokeColumns, format)
		},
	}
	cmd.Flags().StringVarP(&payload, "payload", "p", "", "JSON payload")
	cmd.Flags().StringVar(&payloadFile, "payload-file", "", "Path to payload file")
	return cmd
}

func fnCodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Manage function code",
	}

	get := &cobra.Command{
		Use:   "get <name>",
		Short: "Get function source code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := newClient()
			if err != nil {
				return err
			}
			result, err := c.Get(cmd.Context(), "/functions/"+args[0]+"/code")
			if err != nil {
				return err
			}
			// Table output prints the raw source; structured formats get the
			// whole record.
			if format == output.FormatTable || format == output.FormatWide {
				if obj, ok := result.(map[string]any); ok {
					if code, ok := obj["source_code"].(string); ok && code != "" {
						fmt.Println(code)
						return nil
					}
					if code, ok := obj["code"].(string); ok && code != "" {
						fmt.Println(code)
						return nil
					}
				}
			}
			return output.RenderSingle(result, nil, format)
		},
	}

	var (
		code string
		file string
	)
	update := &cobra.Command{
		Use:   "update <name>",
		Short: "Update function code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := newClient()
			if err != nil {
				return err
			}

			value := code
			if value == "" && file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("cannot read file %s: %w", file, err)
				}
				value = string(data)
			}
			if value == "" {
				return fmt.Errorf("provide --code or --file")
			}

			if _, err := c.Put(cmd.Context(), "/functions/"+args[0]+"/code", map[string]any{"code": value}); err != nil {
				return err
			}
			output.Success("Code updated for '%s'.", args[0])
			return nil
		},
	}
	update.Flags().StringVar(&code, "code", "", "Inline code string")
	update.Flags().StringVar(&file, "file", "", "Path to code file")

	cmd.AddCommand(get, update)
	return cmd
}

func fnLogsCmd() *cobra.Command {
	var tail int
	cmd := &cobra.Command{
		Use:   "logs <name>",
		Short: "Get function logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, format, err := newClient()
			if err != nil {
				return err
			}
			path := "/functions/" + args[0] + "/logs"
			if tail > 0 {
				path += fmt.Sprintf("?tail=%d", tail)
			}
			result, err := c.Get(cmd.Context(), path)
			if err != nil {
				return err
			}
			return output.Render(result, []output.Column{
				output.Col("Timestamp", "timestamp"),
				output.Col("Request ID", "request_id"),
				output.Col("Level", "level"),
				output.Col("Message", "message"),
			}, format)
		},
	}
	cmd.Flags().IntVar(&tail, "tail", 0, "Last N log entries")
	return cmd
}

// resolveJSONPayload validates an inline or file payload, defaulting to an
// empty object.
func resolveJSONPayload(payload, payloadFile string) (any, error) {
	raw := []byte("{}")
	switch {
	case payloadFile != "":
		data, err := os.ReadFile(payloadFile)
		if err != nil {
			return nil, fmt.Errorf("cannot read file %s: %w", payloadFile, err)
		}
		raw = data
	case payload != "":
		raw = []byte(payload)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	return decoded, nil
}
