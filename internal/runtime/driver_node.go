package runtime

import "fmt"

// nodeDriver loads the pulled source file itself: the pull layout already
// places the source at the handler's module path, so re-resolving the module
// path here would double it. The export is looked up by the handler's final
// dot-segment, falling back to a default or handler export only when the
// named export is absent entirely; a present but non-callable export is an
// error, not a reason to fall back. Inputs travel via environment variables
// because node -e leaves argv to the script.
const nodeDriver = `const fs = require("fs");
const path = require("path");

const src = process.env.ORBIT_SOURCE_FILE;
const handlerRef = process.env.ORBIT_HANDLER;
const payloadPath = process.env.ORBIT_PAYLOAD_FILE;

const payload = JSON.parse(fs.readFileSync(payloadPath, "utf8"));

const dot = handlerRef.lastIndexOf(".");
const exportName = dot >= 0 ? handlerRef.slice(dot + 1) : handlerRef;

const mod = require(path.resolve(src));
const fn = exportName in Object(mod) ? mod[exportName] : mod.default || mod.handler;
if (typeof fn !== "function") {
  console.error("handler '" + exportName + "' is not a function in " + src);
  process.exit(1);
}

Promise.resolve(fn(payload, {}))
  .then((result) => {
    process.stdout.write(JSON.stringify(result, null, 2));
  })
  .catch((err) => {
    console.error(err && err.stack ? err.stack : String(err));
    process.exit(1);
  });
`

// NodeDriver supplies the inline program via -e and its inputs via process
// environment variables.
type NodeDriver struct{}

func (NodeDriver) Args(sourcePath, handler, payloadPath string) []string {
	return []string{"-e", nodeDriver}
}

func (NodeDriver) Env(sourcePath, handler, payloadPath string) []string {
	return []string{
		"ORBIT_SOURCE_FILE=" + sourcePath,
		"ORBIT_HANDLER=" + handler,
		"ORBIT_PAYLOAD_FILE=" + payloadPath,
	}
}

func (NodeDriver) Describe(binary, sourcePath, handler, payloadPath string) string {
	return fmt.Sprintf("%s -e <driver> (source=%s handler=%s payload=%s)", binary, sourcePath, handler, payloadPath)
}
