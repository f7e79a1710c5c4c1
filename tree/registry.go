package tree

import (
	"path/filepath"
	"strings"
)

// Registry maps language names and file extensions to adapters. It is
// an explicit object constructed once at process start and passed by
// reference into the code that selects adapters; there is no ambient
// global table.
type Registry struct {
	byLanguage  map[string]Adapter
	byExtension map[string]Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byLanguage:  make(map[string]Adapter),
		byExtension: make(map[string]Adapter),
	}
}

// Register adds an adapter under its language name and the given file
// extensions (including the leading dot). Registering the same
// language or extension twice overwrites the earlier entry.
func (r *Registry) Register(a Adapter, extensions ...string) {
	r.byLanguage[strings.ToLower(a.Language())] = a
	for _, ext := range extensions {
		r.byExtension[strings.ToLower(ext)] = a
	}
}

// ForLanguage returns the adapter registered under the given language
// name, case-insensitively.
func (r *Registry) ForLanguage(lang string) (Adapter, bool) {
	a, ok := r.byLanguage[strings.ToLower(lang)]
	return a, ok
}

// ForFile selects an adapter by the path's file extension.
func (r *Registry) ForFile(path string) (Adapter, bool) {
	a, ok := r.byExtension[strings.ToLower(filepath.Ext(path))]
	return a, ok
}

// Extensions returns every registered file extension.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	return exts
}
