package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrTooLarge is returned when a document exceeds the configured size limit
var ErrTooLarge = errors.New("document exceeds size limit")

// StdinPath names standard input
const StdinPath = "-"

// Document is a loaded input before text conversion
type Document struct {
	Path string
	Raw  []byte
}

// Loader reads documents from files or stdin
type Loader struct {
	maxBytes int64
	stdin    io.Reader
}

// NewLoader creates a loader reading at most maxBytes per document (0 = unlimited)
func NewLoader(maxBytes int64, stdin io.Reader) *Loader {
	if stdin == nil {
		stdin = os.Stdin
	}
	return &Loader{
		maxBytes: maxBytes,
		stdin:    stdin,
	}
}

// Load reads the document at path, or stdin for "-"
func (l *Loader) Load(path string) (*Document, error) {
	if path == StdinPath {
		raw, err := l.read(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return &Document{Path: path, Raw: raw}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	raw, err := l.read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Document{Path: path, Raw: raw}, nil
}

func (l *Loader) read(r io.Reader) ([]byte, error) {
	if l.maxBytes <= 0 {
		return io.ReadAll(r)
	}

	// One extra byte tells a document of exactly maxBytes from a larger one
	raw, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > l.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, l.maxBytes)
	}
	return raw, nil
}
