package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format is an output format selected with -o.
type Format string

const (
	FormatTable Format = "table"
	FormatWide  Format = "wide"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat normalizes a format string, defaulting to table.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	case "wide":
		return FormatWide
	default:
		return FormatTable
	}
}

// Column maps a table header to a dot-path into the rendered value. Wide
// columns only appear with -o wide.
type Column struct {
	Header   string
	Path     string
	WideOnly bool
}

// Col builds a regular column.
func Col(header, path string) Column {
	return Column{Header: header, Path: path}
}

// Wide builds a column shown only in wide output.
func Wide(header, path string) Column {
	return Column{Header: header, Path: path, WideOnly: true}
}

var out io.Writer = os.Stdout
var errOut io.Writer = os.Stderr

// SetWriters redirects output, for tests.
func SetWriters(stdout, stderr io.Writer) {
	out = stdout
	errOut = stderr
}

// Render prints a list of records in the requested format. Table output
// aligns columns with tabwriter; json and yaml print the data as-is.
func Render(data any, columns []Column, format Format) error {
	switch format {
	case FormatJSON:
		return printJSON(data)
	case FormatYAML:
		return printYAML(data)
	}

	items := asList(normalize(data))
	if len(items) == 0 {
		fmt.Fprintln(out, "No resources found.")
		return nil
	}

	active := activeColumns(columns, format == FormatWide)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	headers := make([]string, 0, len(active))
	for _, c := range active {
		headers = append(headers, strings.ToUpper(c.Header))
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, item := range items {
		row := make([]string, 0, len(active))
		for _, c := range active {
			row = append(row, extractField(item, c.Path))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// RenderSingle prints one record: field/value rows in table mode, the full
// document in json/yaml.
func RenderSingle(data any, columns []Column, format Format) error {
	switch format {
	case FormatJSON:
		return printJSON(data)
	case FormatYAML:
		return printYAML(data)
	}

	value := normalize(data)
	active := activeColumns(columns, format == FormatWide)
	if len(active) == 0 {
		return printJSON(data)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range active {
		fmt.Fprintf(w, "%s\t%s\n", c.Header, extractField(value, c.Path))
	}
	return w.Flush()
}

func activeColumns(columns []Column, wide bool) []Column {
	active := make([]Column, 0, len(columns))
	for _, c := range columns {
		if wide || !c.WideOnly {
			active = append(active, c)
		}
	}
	return active
}

func printJSON(data any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printYAML(data any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(normalize(data))
}

// normalize round-trips structs through JSON so dot-path extraction and YAML
// rendering see the same shapes the API returns.
func normalize(data any) any {
	switch data.(type) {
	case map[string]any, []any, nil:
		return data
	}
	b, err := json.Marshal(data)
	if err != nil {
		return data
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return data
	}
	return v
}

func asList(data any) []any {
	switch v := data.(type) {
	case []any:
		return v
	case nil:
		return nil
	default:
		return []any{v}
	}
}

// extractField walks a dot-path into a decoded JSON value, rendering null
// and missing fields as "-".
func extractField(value any, path string) string {
	current := value
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return "-"
		}
		current = obj[key]
	}

	switch v := current.(type) {
	case nil:
		return "-"
	case string:
		if v == "" {
			return "-"
		}
		return v
	case bool:
		return fmt.Sprintf("%t", v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case []any:
		if len(v) == 0 {
			return "-"
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			} else {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
		}
		return strings.Join(parts, ", ")
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "-"
		}
		return string(b)
	}
}

// ANSI colors, suppressed when NO_COLOR is set.
const (
	reset = "\033[0m"
	green = "\033[32m"
	red   = "\033[31m"
	amber = "\033[33m"
)

func colorize(color, text string) string {
	if os.Getenv("NO_COLOR") != "" {
		return text
	}
	return color + text + reset
}

// Success prints a green confirmation line to stdout.
func Success(format string, args ...any) {
	fmt.Fprintln(out, colorize(green, fmt.Sprintf(format, args...)))
}

// Warn prints an amber warning line to stderr.
func Warn(format string, args ...any) {
	fmt.Fprintln(errOut, colorize(amber, fmt.Sprintf(format, args...)))
}

// Errorf prints a red error line to stderr.
func Errorf(format string, args ...any) {
	fmt.Fprintln(errOut, colorize(red, fmt.Sprintf(format, args...)))
}
