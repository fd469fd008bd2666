package util

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
)

// Sha256Hash returns the hex-encoded SHA-256 of the input, matching the
// code_hash the control plane stores for a function's source.
func Sha256Hash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// FileExists reports whether a path exists, without distinguishing files
// from directories.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
