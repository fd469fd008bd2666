package runtime

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitHandler(t *testing.T) {
	cases := []struct {
		handler    string
		wantModule string
		wantExport string
	}{
		{"pkg.sub.handler", "pkg.sub", "handler"},
		{"app.main", "app", "main"},
		{"handler", "", "handler"},
		{"", "", ""},
	}
	for _, tc := range cases {
		mod, export := SplitHandler(tc.handler)
		assert.Equal(t, tc.wantModule, mod, "handler %q", tc.handler)
		assert.Equal(t, tc.wantExport, export, "handler %q", tc.handler)
	}
}

func TestSourcePath(t *testing.T) {
	cases := []struct {
		runtimeID string
		handler   string
		want      string
	}{
		{"python:3.11", "pkg.sub.handler", filepath.Join("pkg", "sub") + ".py"},
		{"python3.11", "app.main", "app.py"},
		{"python3.11", "handler", "main.py"},
		{"node18", "handler", "index.js"},
		{"nodejs20.x", "lib.api.handle", filepath.Join("lib", "api") + ".js"},
		{"go1.22", "main.Handle", "main.go"},
		{"go", "whatever", "main.go"},
		{"rust:1.75", "handler", filepath.Join("src", "main.rs")},
		{"java17", "com.example.Handler.handle", "Main.java"},
		{"cobol", "handler", "function.txt"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SourcePath(tc.runtimeID, tc.handler),
			"runtime %q handler %q", tc.runtimeID, tc.handler)
	}
}

func TestSourcePathIsDeterministic(t *testing.T) {
	a := SourcePath("python3.11", "pkg.sub.handler")
	b := SourcePath("python3.11", "pkg.sub.handler")
	assert.Equal(t, a, b)
}
