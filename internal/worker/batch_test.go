package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/legisref/internal/model"
	"github.com/ppiankov/legisref/internal/pipeline"
)

// mockExtractor fails for paths containing "bad"
type mockExtractor struct {
	delay time.Duration
}

func (m *mockExtractor) Extract(ctx context.Context, path string, opts pipeline.Options) (*model.Report, error) {
	time.Sleep(m.delay)
	if strings.Contains(path, "bad") {
		return nil, errors.New("extract error")
	}
	return &model.Report{
		Source:  path,
		Chamber: opts.Chamber,
		Year:    opts.Year,
	}, nil
}

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "documents.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	opts := pipeline.Options{Chamber: model.ChamberHouse, Year: 2023}
	processor := NewBatchProcessor(&mockExtractor{delay: 5 * time.Millisecond}, 3, opts, nil)

	paths := []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt", "g.txt"}
	results := processor.ProcessPaths(context.Background(), paths)

	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] || res.Index != i {
			t.Errorf("result %d out of order: %+v", i, res)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
			continue
		}
		if res.Report == nil || res.Report.Source != paths[i] || res.Report.Year != 2023 {
			t.Errorf("unexpected report for %s: %+v", res.Path, res.Report)
		}
	}
}

func TestBatchProcessor_ProcessPaths_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockExtractor{}, 2, pipeline.Options{}, nil)

	results := processor.ProcessPaths(context.Background(), []string{"good.txt", "bad.txt", "fine.txt"})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[1].Error == nil {
		t.Error("expected error for bad.txt")
	}
	if results[1].Report != nil {
		t.Error("expected nil report on error")
	}
	if results[0].Error != nil || results[2].Error != nil {
		t.Error("a failed document should not affect the others")
	}

	ok, failed := Summarize(results)
	if ok != 2 || failed != 1 {
		t.Errorf("Summarize() = %d, %d", ok, failed)
	}
}

func TestBatchProcessor_ProcessPaths_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockExtractor{}, 2, pipeline.Options{}, nil)

	results := processor.ProcessPaths(context.Background(), []string{})
	if results == nil || len(results) != 0 {
		t.Errorf("expected 0 results, got %v", results)
	}
}

func TestBatchProcessor_ProcessPaths_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&mockExtractor{}, 2, pipeline.Options{}, nil)
	results := processor.ProcessPaths(ctx, []string{"a.txt", "b.txt"})

	if len(results) != 2 {
		t.Fatalf("expected a result per path, got %d", len(results))
	}
	for _, r := range results {
		if r == nil {
			t.Fatal("unexpected nil result")
		}
		if r.Error != nil && !errors.Is(r.Error, context.Canceled) {
			t.Errorf("unexpected error %v", r.Error)
		}
	}
}

func TestReadPathsFromFile(t *testing.T) {
	list := writeList(t, `records/day1.txt
# comment
records/day2.html
   
/abs/day3.txt
records/../records/day1.txt`)
	base := filepath.Dir(list)

	paths, err := ReadPathsFromFile(list)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	expected := []string{
		filepath.Join(base, "records", "day1.txt"),
		filepath.Join(base, "records", "day2.html"),
		"/abs/day3.txt",
	}
	if !reflect.DeepEqual(paths, expected) {
		t.Errorf("ReadPathsFromFile() = %v, want %v", paths, expected)
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadPathsFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestExtractResult_GetError(t *testing.T) {
	r1 := &ExtractResult{Path: "a.txt"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("extract failed")
	r2 := &ExtractResult{Path: "a.txt", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	list := writeList(t, "a.txt\nbad.txt\n# comment\n\nc.txt\n")

	processor := NewBatchProcessor(&mockExtractor{}, 2, pipeline.Options{}, nil)
	results, err := processor.ProcessFile(context.Background(), list)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockExtractor{}, 2, pipeline.Options{}, nil)

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestOutputNames(t *testing.T) {
	got := OutputNames([]string{"a/record.txt", "b/record.html", "2023-01-09.htm", ".hidden", "plain"})
	want := []string{"record.json", "record-2.json", "2023-01-09.json", ".hidden.json", "plain.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OutputNames() = %v, want %v", got, want)
	}
}

func TestOutputNames_NeverCollide(t *testing.T) {
	paths := []string{"a/record.txt", "b/record.txt", "c/record-2.txt", "d/_manifest.txt"}
	got := OutputNames(paths, "_manifest.json")
	want := []string{"record.json", "record-2.json", "record-2-2.json", "_manifest-2.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OutputNames() = %v, want %v", got, want)
	}

	seen := map[string]bool{"_manifest.json": true}
	for _, name := range got {
		if seen[name] {
			t.Errorf("duplicate output name %q in %v", name, got)
		}
		seen[name] = true
	}
}

func TestManifest(t *testing.T) {
	m := NewManifest(time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))
	if len(m.BatchID) != 36 {
		t.Errorf("expected a UUID batch ID, got %q", m.BatchID)
	}
	if other := NewManifest(time.Now()); other.BatchID == m.BatchID {
		t.Error("expected distinct batch IDs")
	}

	m.Add("a.txt", "a.json", nil)
	m.Add("bad.txt", "bad.json", errors.New("extract error"))

	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := m.Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded Manifest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := []ManifestEntry{
		{Path: "a.txt", Report: "a.json"},
		{Path: "bad.txt", Error: "extract error"},
	}
	if !reflect.DeepEqual(decoded.Entries, want) {
		t.Errorf("entries = %+v, want %+v", decoded.Entries, want)
	}
	if decoded.BatchID != m.BatchID {
		t.Errorf("batch ID not persisted")
	}
}
