package runtime

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// TestOutcome is the result of attempting a local execution. Exactly one of
// the two tags applies: Executed (with the command and captured output) or
// skipped (with a reason). There is no third silent state.
type TestOutcome struct {
	Executed bool   `json:"executed" yaml:"executed"`
	Command  string `json:"command,omitempty" yaml:"command,omitempty"`
	Output   string `json:"output,omitempty" yaml:"output,omitempty"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ExecError is a driver subprocess that exited non-zero. It carries the
// captured standard error, or a generic fallback when that stream was empty.
type ExecError struct {
	Stderr string
}

func (e *ExecError) Error() string {
	if e.Stderr == "" {
		return "local test failed: unknown error"
	}
	return "local test failed: " + e.Stderr
}

// RunLocalTest dispatches a local execution attempt by runtime family.
// Python and Node functions run through a generated driver; Go, Rust and
// Java are always skipped (toolchain presence only changes the skip text);
// unrecognized runtimes are skipped outright. It fails only when a Python or
// Node toolchain cannot be located, or when the spawned driver exits
// non-zero.
func RunLocalTest(ctx context.Context, runtimeID, handler, sourcePath, payloadPath string, prober Prober) (*TestOutcome, error) {
	family := Detect(runtimeID)
	dir := filepath.Dir(sourcePath)

	switch family {
	case FamilyPython, FamilyNode:
		tc, err := Locate(family, prober)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("family", string(family)).Str("binary", tc.Binary).Msg("toolchain located")
		return execute(ctx, tc, driverFor(family), sourcePath, handler, payloadPath)
	case FamilyGo, FamilyRust, FamilyJava:
		presence := fmt.Sprintf("%s toolchain not found", family)
		if tc, err := Locate(family, prober); err == nil {
			presence = fmt.Sprintf("%s toolchain found (%s)", family, tc.Binary)
		}
		return &TestOutcome{Reason: fmt.Sprintf(
			"%s; automatic local execution currently supports the Python and Node families only. Run your %s build/test commands manually in %s",
			presence, family, dir)}, nil
	default:
		return &TestOutcome{Reason: fmt.Sprintf(
			"runtime %q was not recognized; the pulled source in %s is kept for manual inspection",
			runtimeID, dir)}, nil
	}
}

// execute spawns exactly one driver subprocess and captures its output in
// full. Output is trimmed of surrounding whitespace before being surfaced.
func execute(ctx context.Context, tc Toolchain, d Driver, sourcePath, handler, payloadPath string) (*TestOutcome, error) {
	absSource, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("resolve source path: %w", err)
	}
	absPayload, err := filepath.Abs(payloadPath)
	if err != nil {
		return nil, fmt.Errorf("resolve payload path: %w", err)
	}

	cmd := exec.CommandContext(ctx, tc.Binary, d.Args(absSource, handler, absPayload)...)
	if env := d.Env(absSource, handler, absPayload); env != nil {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Str("binary", tc.Binary).Str("handler", handler).Msg("running local test driver")

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil, &ExecError{Stderr: strings.TrimSpace(stderr.String())}
		}
		return nil, fmt.Errorf("run %s driver: %w", tc.Binary, err)
	}

	return &TestOutcome{
		Executed: true,
		Command:  d.Describe(tc.Binary, absSource, handler, absPayload),
		Output:   strings.TrimSpace(stdout.String()),
	}, nil
}
