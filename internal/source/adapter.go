// Package source turns raw documents into the plain text the extractors read.
package source

import (
	"path/filepath"
	"strings"
)

// Adapter converts one kind of document into text
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can read the given path/content type
	CanHandle(path string, contentType string) bool

	// Text returns the document text
	Text(raw []byte) (string, error)
}

// Registry picks an adapter per document
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	registry.Register(NewHTMLAdapter())

	// Anything else is read as plain text
	registry.generic = NewPlainAdapter()

	return registry
}

// Register adds an adapter ahead of the fallback
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter returns the first adapter that can handle the document
func (r *Registry) FindAdapter(path string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(path, contentType) {
			return adapter
		}
	}
	return r.generic
}

// Names lists registered adapters, fallback last
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters)+1)
	for _, a := range r.adapters {
		names = append(names, a.Name())
	}
	return append(names, r.generic.Name())
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// mediaType strips parameters, e.g. "text/html; charset=utf-8" -> "text/html"
func mediaType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
