package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/oriys/orbit/internal/runtime"
	"github.com/oriys/orbit/internal/util"
)

// API is the slice of the control plane the pull flow consumes.
type API interface {
	Function(ctx context.Context, name string) (map[string]any, error)
	FunctionCode(ctx context.Context, name string) (map[string]any, error)
}

// DefaultOutputDir is where pulled functions land unless overridden.
const DefaultOutputDir = "functions"

// Local test status values recorded in a PullResult.
const (
	TestNotRun   = "not-run"
	TestExecuted = "executed"
	TestSkipped  = "skipped"
)

// PullOptions controls a single pull.
type PullOptions struct {
	Name        string
	OutputDir   string         // defaults to DefaultOutputDir
	Force       bool           // overwrite an existing target directory
	RunTest     bool
	Payload     string         // inline JSON test payload
	PayloadFile string         // path to a JSON payload file
	Prober      runtime.Prober // nil means probe the host PATH
}

// PullResult is the summary handed back for rendering.
type PullResult struct {
	Name         string `json:"name" yaml:"name"`
	Runtime      string `json:"runtime" yaml:"runtime"`
	Handler      string `json:"handler" yaml:"handler"`
	Dir          string `json:"dir" yaml:"dir"`
	SourcePath   string `json:"source_path" yaml:"source_path"`
	PayloadPath  string `json:"payload_path" yaml:"payload_path"`
	MetaPath     string `json:"meta_path" yaml:"meta_path"`
	TestStatus   string `json:"test_status" yaml:"test_status"`
	TestCommand  string `json:"test_command,omitempty" yaml:"test_command,omitempty"`
	TestOutput   string `json:"test_output,omitempty" yaml:"test_output,omitempty"`
	TestReason   string `json:"test_reason,omitempty" yaml:"test_reason,omitempty"`
	HashMismatch bool   `json:"hash_mismatch,omitempty" yaml:"hash_mismatch,omitempty"`
}

// metadata is the shape of function.meta.json.
type metadata struct {
	Name        string         `json:"name"`
	Runtime     string         `json:"runtime"`
	Handler     string         `json:"handler"`
	SourceFile  string         `json:"source_file"`
	PayloadFile string         `json:"payload_file"`
	Function    map[string]any `json:"function"`
}

const (
	payloadFileName = "payload.json"
	metaFileName    = "function.meta.json"
)

// Pull fetches a function's record and source from the control plane, lays
// it out under <outputDir>/<name>, and optionally runs a local test against
// exactly what was persisted. Any failure aborts the whole pull; there is no
// partial-success return. Files are written source, then payload, then
// metadata, so a crash mid-pull cannot leave metadata referencing files that
// were never written.
func Pull(ctx context.Context, api API, opts PullOptions) (*PullResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}

	fn, err := api.Function(ctx, opts.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch function %q: %w", opts.Name, err)
	}
	code, err := api.FunctionCode(ctx, opts.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch code for %q: %w", opts.Name, err)
	}

	runtimeID := stringField(fn, "runtime", "unknown")
	handler := stringField(fn, "handler", "handler")
	source := stringField(code, "source_code", "")
	if source == "" {
		source = stringField(code, "code", "")
	}
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("function %q has no source code to pull", opts.Name)
	}

	log.Debug().Str("function", opts.Name).Str("runtime", runtimeID).Str("handler", handler).Msg("fetched function record")

	dir := filepath.Join(opts.OutputDir, opts.Name)
	if util.FileExists(dir) && !opts.Force {
		return nil, fmt.Errorf("%s already exists, use --force to overwrite", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	sourceRel := runtime.SourcePath(runtimeID, handler)
	sourcePath := filepath.Join(dir, sourceRel)
	if sub := filepath.Dir(sourcePath); sub != dir {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", sub, err)
		}
	}
	if err := os.WriteFile(sourcePath, []byte(source), 0o644); err != nil {
		return nil, fmt.Errorf("write source: %w", err)
	}
	log.Debug().Str("path", sourcePath).Msg("wrote source file")

	payload, err := resolvePayload(opts)
	if err != nil {
		return nil, err
	}
	payloadPath := filepath.Join(dir, payloadFileName)
	if err := os.WriteFile(payloadPath, payload, 0o644); err != nil {
		return nil, fmt.Errorf("write payload: %w", err)
	}

	meta := metadata{
		Name:        opts.Name,
		Runtime:     runtimeID,
		Handler:     handler,
		SourceFile:  sourceRel,
		PayloadFile: payloadFileName,
		Function:    fn,
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	metaPath := filepath.Join(dir, metaFileName)
	if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	res := &PullResult{
		Name:        opts.Name,
		Runtime:     runtimeID,
		Handler:     handler,
		Dir:         absPath(dir),
		SourcePath:  absPath(sourcePath),
		PayloadPath: absPath(payloadPath),
		MetaPath:    absPath(metaPath),
		TestStatus:  TestNotRun,
	}

	if expected := stringField(fn, "code_hash", ""); expected != "" && expected != util.Sha256Hash(source) {
		res.HashMismatch = true
		log.Warn().Str("function", opts.Name).Msg("pulled source does not match the recorded code_hash")
	}

	if opts.RunTest {
		// Test exactly what was persisted, not the raw inputs.
		outcome, err := runtime.RunLocalTest(ctx, meta.Runtime, meta.Handler, res.SourcePath, res.PayloadPath, opts.Prober)
		if err != nil {
			return nil, err
		}
		if outcome.Executed {
			res.TestStatus = TestExecuted
			res.TestCommand = outcome.Command
			res.TestOutput = outcome.Output
		} else {
			res.TestStatus = TestSkipped
			res.TestReason = outcome.Reason
		}
	}

	return res, nil
}

// Retest re-runs the local test for an already pulled function, using the
// files a previous Pull persisted.
func Retest(ctx context.Context, res *PullResult) (*runtime.TestOutcome, error) {
	return runtime.RunLocalTest(ctx, res.Runtime, res.Handler, res.SourcePath, res.PayloadPath, nil)
}

// resolvePayload picks the test payload: a payload file wins over an inline
// string, and neither means an empty JSON object. The result is
// pretty-printed for the payload.json artifact.
func resolvePayload(opts PullOptions) ([]byte, error) {
	raw := []byte("{}")
	switch {
	case opts.PayloadFile != "":
		data, err := os.ReadFile(opts.PayloadFile)
		if err != nil {
			return nil, fmt.Errorf("read payload file: %w", err)
		}
		raw = data
	case opts.Payload != "":
		raw = []byte(opts.Payload)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	return json.MarshalIndent(decoded, "", "  ")
}

func stringField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
