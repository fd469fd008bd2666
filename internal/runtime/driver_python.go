package runtime

import "fmt"

// pythonDriver loads the pulled source file as a module without requiring it
// to be importable, resolves the export, and invokes it with the decoded
// payload plus an empty context dict. Whether the handler takes the context
// argument is decided by inspecting its signature rather than catching
// TypeError, so genuine type errors raised inside the handler are not
// mistaken for an arity mismatch. Results that are not JSON-serializable are
// coerced to their string form.
const pythonDriver = `import importlib.util, inspect, json, sys

src, name, payload_path = sys.argv[1], sys.argv[2], sys.argv[3]

spec = importlib.util.spec_from_file_location("orbit_handler", src)
module = importlib.util.module_from_spec(spec)
spec.loader.exec_module(module)

fn = getattr(module, name, None)
if fn is None:
    raise SystemExit("handler %r not found in %s" % (name, src))

with open(payload_path) as f:
    payload = json.load(f)

try:
    params = list(inspect.signature(fn).parameters.values())
    positional = [p for p in params if p.kind in (p.POSITIONAL_ONLY, p.POSITIONAL_OR_KEYWORD)]
    variadic = any(p.kind == p.VAR_POSITIONAL for p in params)
    wants_context = variadic or len(positional) >= 2
except (TypeError, ValueError):
    wants_context = True

result = fn(payload, {}) if wants_context else fn(payload)
print(json.dumps(result, default=str))
`

// PythonDriver passes its inputs as positional arguments after the inline
// program: absolute source path, export name, absolute payload path.
type PythonDriver struct{}

func (PythonDriver) Args(sourcePath, handler, payloadPath string) []string {
	_, export := SplitHandler(handler)
	return []string{"-c", pythonDriver, sourcePath, export, payloadPath}
}

func (PythonDriver) Env(sourcePath, handler, payloadPath string) []string {
	return nil
}

func (PythonDriver) Describe(binary, sourcePath, handler, payloadPath string) string {
	_, export := SplitHandler(handler)
	return fmt.Sprintf("%s -c <driver> %s %s %s", binary, sourcePath, export, payloadPath)
}
