package runtime

// Driver generates the inline program and invocation for a runtime family
// that supports automatic local execution. Keeping script generation behind
// this interface lets the invocation shape be tested without spawning the
// interpreter.
type Driver interface {
	// Args returns the interpreter arguments, inline program included.
	Args(sourcePath, handler, payloadPath string) []string
	// Env returns extra environment entries for the interpreter, or nil if
	// inputs travel as positional arguments.
	Env(sourcePath, handler, payloadPath string) []string
	// Describe returns a short human-readable form of the invocation with
	// the inline program elided.
	Describe(binary, sourcePath, handler, payloadPath string) string
}

func driverFor(f Family) Driver {
	switch f {
	case FamilyPython:
		return PythonDriver{}
	case FamilyNode:
		return NodeDriver{}
	default:
		return nil
	}
}
