package domain

import (
	"path/filepath"
	"strings"
)

const separator = string(filepath.Separator)

// TrackedPath is a normalized absolute filesystem path.
// Directory paths always end with the path separator; file paths never do.
type TrackedPath string

// Normalize cleans p and keeps its directory marker.
// A trailing "/" or host separator on the input marks a directory.
// Normalize is idempotent and never consults the working directory.
func Normalize(p string) TrackedPath {
	if p == "" {
		return ""
	}

	dir := hasDirMarker(p)
	cleaned := filepath.Clean(p)
	if dir && !strings.HasSuffix(cleaned, separator) {
		cleaned += separator
	}
	return TrackedPath(cleaned)
}

func hasDirMarker(p string) bool {
	return strings.HasSuffix(p, "/") || strings.HasSuffix(p, separator)
}

// String returns the path as a plain string.
func (p TrackedPath) String() string {
	return string(p)
}

// IsDir reports whether p carries the directory marker.
func (p TrackedPath) IsDir() bool {
	return strings.HasSuffix(string(p), separator)
}

// AsDir returns p with the directory marker appended.
func (p TrackedPath) AsDir() TrackedPath {
	if p.IsDir() {
		return p
	}
	return TrackedPath(string(p) + separator)
}

// Trimmed returns p without its directory marker.
// The filesystem root is returned unchanged.
func (p TrackedPath) Trimmed() string {
	s := string(p)
	if len(s) > 1 && strings.HasSuffix(s, separator) {
		return strings.TrimSuffix(s, separator)
	}
	return s
}

// Base returns the last element of p, ignoring the directory marker.
func (p TrackedPath) Base() string {
	return filepath.Base(p.Trimmed())
}

// Rel expresses p relative to root using forward slashes.
// Directories keep a trailing slash. It reports false when p is the root
// itself or lies outside of it.
func (p TrackedPath) Rel(root string) (string, bool) {
	if p == "" || root == "" {
		return "", false
	}

	rel, err := filepath.Rel(filepath.Clean(root), p.Trimmed())
	if err != nil || rel == "." {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+separator) {
		return "", false
	}

	rel = filepath.ToSlash(rel)
	if p.IsDir() {
		rel += "/"
	}
	return rel, true
}
