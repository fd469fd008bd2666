package runtime

import (
	"fmt"
	"os/exec"
	"strings"
)

// Toolchain is an installed language binary that answered a version probe.
// It is only valid for the invocation that located it; nothing is cached.
type Toolchain struct {
	Binary string
}

// Prober checks whether a candidate binary responds to a version query.
// Probing depends on what is installed on the host, so tests substitute a
// fake prober instead of relying on PATH.
type Prober interface {
	Probe(binary string) error
}

// ExecProber probes by spawning the binary with its version argument and
// discarding all streams. A non-zero exit and a spawn failure are treated
// the same: the candidate is unavailable.
type ExecProber struct{}

func (ExecProber) Probe(binary string) error {
	cmd := exec.Command(binary, versionArg(binary))
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run()
}

// versionArg picks the version-query argument a candidate understands.
// "go version" has no flag form and java predates double-dash flags.
func versionArg(binary string) string {
	switch binary {
	case "go":
		return "version"
	case "java":
		return "-version"
	default:
		return "--version"
	}
}

// Candidates lists probe-worthy binaries for a family, in preference order.
// FamilyUnknown has none: locating fails immediately without probing.
func Candidates(f Family) []string {
	switch f {
	case FamilyPython:
		return []string{"python3", "python"}
	case FamilyNode:
		return []string{"node"}
	case FamilyGo:
		return []string{"go"}
	case FamilyRust:
		return []string{"cargo", "rustc"}
	case FamilyJava:
		return []string{"java"}
	default:
		return nil
	}
}

func installHint(f Family) string {
	switch f {
	case FamilyPython:
		return "Install Python 3: apt install python3 (Debian/Ubuntu), brew install python3 (macOS), or https://www.python.org/downloads/"
	case FamilyNode:
		return "Install Node.js: apt install nodejs (Debian/Ubuntu), brew install node (macOS), or https://nodejs.org/"
	case FamilyGo:
		return "Install Go: apt install golang (Debian/Ubuntu), brew install go (macOS), or https://go.dev/dl/"
	case FamilyRust:
		return "Install Rust: curl https://sh.rustup.rs | sh, or see https://rustup.rs/"
	case FamilyJava:
		return "Install a JDK: apt install default-jdk (Debian/Ubuntu), brew install openjdk (macOS), or https://adoptium.net/"
	default:
		return ""
	}
}

// MissingToolchainError reports that no candidate binary for a family
// answered a version probe. The message carries install guidance since it is
// the primary operator-facing output of this failure path.
type MissingToolchainError struct {
	Family     Family
	Candidates []string
	Hint       string
}

func (e *MissingToolchainError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no toolchain candidates for runtime family %q", e.Family)
	}
	return fmt.Sprintf("no %s toolchain found (tried %s). %s",
		e.Family, strings.Join(e.Candidates, ", "), e.Hint)
}

// Locate probes a family's candidates in order and accepts the first that
// exits zero. The check only verifies presence, not version compatibility.
func Locate(f Family, prober Prober) (Toolchain, error) {
	if prober == nil {
		prober = ExecProber{}
	}
	cands := Candidates(f)
	for _, c := range cands {
		if err := prober.Probe(c); err == nil {
			return Toolchain{Binary: c}, nil
		}
	}
	return Toolchain{}, &MissingToolchainError{Family: f, Candidates: cands, Hint: installHint(f)}
}
