package validation

import (
	"path/filepath"
	"sort"
	"strings"
)

// ArchiveExtension is the container extension dispatched to the archive
// scanner rather than profiled directly.
const ArchiveExtension = ".zip"

// ExtensionSet is a closed set of accepted document extensions. Matching is
// case-insensitive and new formats extend the set without touching call
// sites.
type ExtensionSet struct {
	accepted map[string]struct{}
}

// NewExtensionSet builds a set from the given extensions. Entries are
// lowercased and get a leading dot if missing.
func NewExtensionSet(exts []string) *ExtensionSet {
	accepted := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		accepted[e] = struct{}{}
	}
	return &ExtensionSet{accepted: accepted}
}

// Contains reports whether the path's extension is in the set.
func (s *ExtensionSet) Contains(path string) bool {
	_, ok := s.accepted[Extension(path)]
	return ok
}

// List returns the accepted extensions in sorted order for diagnostics.
func (s *ExtensionSet) List() []string {
	exts := make([]string, 0, len(s.accepted))
	for e := range s.accepted {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

// Extension returns the lowercased extension of path, including the dot.
func Extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsArchive reports whether the path names an archive container.
func IsArchive(path string) bool {
	return Extension(path) == ArchiveExtension
}
