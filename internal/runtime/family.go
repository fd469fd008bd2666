package runtime

import "strings"

// Family is the closed classification of a function's declared runtime,
// used to select the source layout and local execution strategy.
type Family string

const (
	FamilyPython  Family = "python"
	FamilyNode    Family = "node"
	FamilyGo      Family = "go"
	FamilyRust    Family = "rust"
	FamilyJava    Family = "java"
	FamilyUnknown Family = "unknown"
)

// Detect maps a free-form runtime identifier ("python3.11", "nodejs20.x",
// "go1.22") to a Family. Matching is case-insensitive and total: an
// unrecognized identifier is data (FamilyUnknown), not an error.
func Detect(runtimeID string) Family {
	s := strings.ToLower(strings.TrimSpace(runtimeID))
	switch {
	case strings.Contains(s, "python"):
		return FamilyPython
	case strings.Contains(s, "node"), strings.Contains(s, "javascript"), strings.Contains(s, "typescript"):
		return FamilyNode
	case s == "go", strings.HasPrefix(s, "go:"), strings.HasPrefix(s, "go1"), strings.Contains(s, "golang"):
		return FamilyGo
	case strings.Contains(s, "rust"):
		return FamilyRust
	case strings.Contains(s, "java"):
		return FamilyJava
	default:
		return FamilyUnknown
	}
}
