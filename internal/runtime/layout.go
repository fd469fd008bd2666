package runtime

import (
	"path/filepath"
	"strings"
)

// SplitHandler splits a dotted handler reference into its module path and
// export name: "pkg.sub.handler" -> ("pkg.sub", "handler"). A reference
// without a dot is all export name.
func SplitHandler(handler string) (modulePath, export string) {
	if i := strings.LastIndex(handler, "."); i >= 0 {
		return handler[:i], handler[i+1:]
	}
	return "", handler
}

// SourcePath derives the conventional relative source file path for a pulled
// function. Pure: identical (runtime, handler) pairs always yield the same
// path, with no filesystem access.
func SourcePath(runtimeID, handler string) string {
	modulePath, _ := SplitHandler(handler)
	switch Detect(runtimeID) {
	case FamilyPython:
		if modulePath == "" {
			return "main.py"
		}
		return modulePathToFile(modulePath, ".py")
	case FamilyNode:
		if modulePath == "" {
			return "index.js"
		}
		return modulePathToFile(modulePath, ".js")
	case FamilyGo:
		// Single entry point convention; the module path is ignored.
		return "main.go"
	case FamilyRust:
		return filepath.Join("src", "main.rs")
	case FamilyJava:
		return "Main.java"
	default:
		// Not runnable, kept for inspection.
		return "function.txt"
	}
}

func modulePathToFile(modulePath, ext string) string {
	return filepath.Join(strings.Split(modulePath, ".")...) + ext
}
