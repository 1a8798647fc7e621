package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// AllowedExtensions are the itinerary text file types picked up by ingest
// (lowercase, without '.').
var AllowedExtensions = map[string]struct{}{
	"txt":  {},
	"text": {},
	"md":   {},
}

// NormalizeExt lowercases ext and strips the leading dot.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// AllowedExt checks if a file extension is in AllowedExtensions.
func AllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// HashHex is the hex sha256 used to deduplicate ingested content.
func HashHex(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
