package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	SetWriters(&stdout, &stderr)
	t.Cleanup(func() { SetWriters(os.Stdout, os.Stderr) })
	return &stdout, &stderr
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatYAML, ParseFormat("yaml"))
	assert.Equal(t, FormatYAML, ParseFormat("yml"))
	assert.Equal(t, FormatWide, ParseFormat("WIDE"))
	assert.Equal(t, FormatTable, ParseFormat("table"))
	assert.Equal(t, FormatTable, ParseFormat(""))
	assert.Equal(t, FormatTable, ParseFormat("bogus"))
}

func TestRenderTable(t *testing.T) {
	stdout, _ := capture(t)

	data := []any{
		map[string]any{"name": "greeter", "runtime": "python3.11", "memory_mb": float64(128)},
		map[string]any{"name": "resizer", "runtime": "node18", "memory_mb": float64(256)},
	}
	cols := []Column{Col("Name", "name"), Col("Runtime", "runtime"), Col("Memory", "memory_mb"), Wide("Extra", "extra")}

	require.NoError(t, Render(data, cols, FormatTable))
	out := stdout.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "greeter")
	assert.Contains(t, out, "python3.11")
	assert.Contains(t, out, "128")
	assert.NotContains(t, out, "EXTRA")
}

func TestRenderWideIncludesWideColumns(t *testing.T) {
	stdout, _ := capture(t)

	data := []any{map[string]any{"name": "greeter", "extra": "detail"}}
	cols := []Column{Col("Name", "name"), Wide("Extra", "extra")}

	require.NoError(t, Render(data, cols, FormatWide))
	assert.Contains(t, stdout.String(), "EXTRA")
	assert.Contains(t, stdout.String(), "detail")
}

func TestRenderEmptyList(t *testing.T) {
	stdout, _ := capture(t)
	require.NoError(t, Render([]any{}, []Column{Col("Name", "name")}, FormatTable))
	assert.Equal(t, "No resources found.\n", stdout.String())
}

func TestRenderJSON(t *testing.T) {
	stdout, _ := capture(t)

	data := map[string]any{"name": "greeter"}
	require.NoError(t, Render(data, nil, FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	assert.Equal(t, "greeter", decoded["name"])
}

func TestRenderYAML(t *testing.T) {
	stdout, _ := capture(t)
	require.NoError(t, Render(map[string]any{"name": "greeter"}, nil, FormatYAML))
	assert.Contains(t, stdout.String(), "name: greeter")
}

func TestRenderSingleFieldRows(t *testing.T) {
	stdout, _ := capture(t)

	data := map[string]any{"name": "greeter", "runtime": "python3.11"}
	cols := []Column{Col("Name", "name"), Col("Runtime", "runtime")}
	require.NoError(t, RenderSingle(data, cols, FormatTable))

	out := stdout.String()
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "greeter")
	assert.Contains(t, out, "python3.11")
}

func TestRenderSingleWithoutColumnsFallsBackToJSON(t *testing.T) {
	stdout, _ := capture(t)
	require.NoError(t, RenderSingle(map[string]any{"status": "ok"}, nil, FormatTable))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	assert.Equal(t, "ok", decoded["status"])
}

func TestRenderSingleNormalizesStructs(t *testing.T) {
	stdout, _ := capture(t)

	type record struct {
		Name string `json:"name"`
	}
	require.NoError(t, RenderSingle(record{Name: "greeter"}, []Column{Col("Name", "name")}, FormatTable))
	assert.Contains(t, stdout.String(), "greeter")
}

func TestExtractField(t *testing.T) {
	value := map[string]any{
		"name":   "greeter",
		"empty":  "",
		"null":   nil,
		"truthy": true,
		"count":  float64(3),
		"ratio":  1.5,
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"inner": "x"},
	}

	cases := []struct {
		path string
		want string
	}{
		{"name", "greeter"},
		{"empty", "-"},
		{"null", "-"},
		{"missing", "-"},
		{"truthy", "true"},
		{"count", "3"},
		{"ratio", "1.5"},
		{"tags", "a, b"},
		{"nested.inner", "x"},
		{"nested.absent", "-"},
		{"name.deeper", "-"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractField(value, tc.path), "path %q", tc.path)
	}
}

func TestColorizeHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "plain", colorize(green, "plain"))
}

func TestSuccessWarnErrorStreams(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	stdout, stderr := capture(t)

	Success("done %s", "ok")
	Warn("careful")
	Errorf("broke")

	assert.Equal(t, "done ok\n", stdout.String())
	assert.True(t, strings.Contains(stderr.String(), "careful"))
	assert.True(t, strings.Contains(stderr.String(), "broke"))
}
