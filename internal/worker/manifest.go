package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Manifest indexes the reports written by one batch run
type Manifest struct {
	BatchID   string          `json:"batch_id"`
	StartedAt time.Time       `json:"started_at"`
	Entries   []ManifestEntry `json:"entries"`
}

// ManifestEntry records the outcome for one document
type ManifestEntry struct {
	Path   string `json:"path"`
	Report string `json:"report,omitempty"` // Report file name inside the output directory
	Error  string `json:"error,omitempty"`
}

// NewManifest starts a manifest with a fresh batch ID
func NewManifest(startedAt time.Time) *Manifest {
	return &Manifest{
		BatchID:   uuid.NewString(),
		StartedAt: startedAt.UTC(),
		Entries:   []ManifestEntry{},
	}
}

// Add records a written report, or the error that prevented it
func (m *Manifest) Add(path, report string, err error) {
	entry := ManifestEntry{Path: path, Report: report}
	if err != nil {
		entry.Report = ""
		entry.Error = err.Error()
	}
	m.Entries = append(m.Entries, entry)
}

// Write saves the manifest as indented JSON
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
