package source

import (
	"strings"
	"unicode/utf8"
)

// PlainAdapter reads text files as-is
type PlainAdapter struct{}

// NewPlainAdapter creates the plain text adapter
func NewPlainAdapter() *PlainAdapter {
	return &PlainAdapter{}
}

// Name returns the adapter name
func (a *PlainAdapter) Name() string {
	return "plain"
}

// CanHandle accepts everything
func (a *PlainAdapter) CanHandle(path string, contentType string) bool {
	return true
}

// Text returns raw as a string, dropping a UTF-8 byte order mark and
// replacing invalid sequences
func (a *PlainAdapter) Text(raw []byte) (string, error) {
	text := strings.TrimPrefix(string(raw), "\uFEFF")
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	return text, nil
}
