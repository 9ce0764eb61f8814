package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/legisref/internal/directory"
	"github.com/ppiankov/legisref/internal/model"
)

func testDirectory() *directory.Memory {
	return directory.NewMemory([]model.Legislator{
		{BioguideID: "S000001", LastName: "Smith", Gender: model.GenderMale, Chamber: model.ChamberHouse, State: "CA"},
		{BioguideID: "S000002", LastName: "Smith", Gender: model.GenderMale, Chamber: model.ChamberHouse, State: "CA"},
		{BioguideID: "P000197", LastName: "Pelosi", Gender: model.GenderFemale, Chamber: model.ChamberHouse, State: "CA"},
	})
}

func newTestPipeline(t *testing.T, dir *directory.Memory, now time.Time) *Pipeline {
	t.Helper()
	cfg := model.DefaultConfig()

	var p *Pipeline
	var err error
	if dir == nil {
		p, err = New(cfg, nil, nil)
	} else {
		p, err = New(cfg, dir, nil)
	}
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	p.now = func() time.Time { return now }
	return p
}

const recordText = `Roll Call 123 was taken on H.R. 45. Mr. Smith of CA rose in support.
Roll no. 123 was recorded again, and S. 45 was referred.`

func TestExtractText(t *testing.T) {
	p := newTestPipeline(t, testDirectory(), time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC))

	report, err := p.ExtractText(context.Background(), recordText, Options{Year: 2023})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Congress != 118 {
		t.Errorf("expected congress 118, got %d", report.Congress)
	}
	if !reflect.DeepEqual(report.RollIDs, []string{"h123-2023"}) {
		t.Errorf("RollIDs = %v", report.RollIDs)
	}
	if !reflect.DeepEqual(report.BillIDs, []string{"hr45-118", "s45-118"}) {
		t.Errorf("BillIDs = %v", report.BillIDs)
	}
	if !reflect.DeepEqual(report.Legislators, []string{"Mr. Smith of CA"}) {
		t.Errorf("Legislators = %v", report.Legislators)
	}
	if !reflect.DeepEqual(report.BioguideIDs, []string{"S000001", "S000002"}) {
		t.Errorf("BioguideIDs = %v", report.BioguideIDs)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", report.Warnings)
	}
	if _, err := time.Parse(time.RFC3339, report.ExtractedAt); err != nil {
		t.Errorf("ExtractedAt %q is not RFC3339: %v", report.ExtractedAt, err)
	}
}

func TestExtractText_DefaultsToCurrentSession(t *testing.T) {
	tests := []struct {
		name         string
		now          time.Time
		opts         Options
		wantYear     int
		wantCongress int
	}{
		{
			name:         "before noon on January 3rd counts toward the previous year",
			now:          time.Date(2025, 1, 3, 15, 0, 0, 0, time.UTC), // 10:00 Eastern
			wantYear:     2024,
			wantCongress: 118,
		},
		{
			name:         "after the session convenes",
			now:          time.Date(2025, 1, 3, 18, 0, 0, 0, time.UTC), // 13:00 Eastern
			wantYear:     2025,
			wantCongress: 119,
		},
		{
			name:         "year only",
			now:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			opts:         Options{Year: 2010},
			wantYear:     2010,
			wantCongress: 111,
		},
		{
			name:         "congress only, during its second year",
			now:          time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			opts:         Options{Congress: 118},
			wantYear:     2024,
			wantCongress: 118,
		},
		{
			name:         "congress only, in the past",
			now:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			opts:         Options{Congress: 113},
			wantYear:     2013,
			wantCongress: 113,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, nil, tt.now)
			report, err := p.ExtractText(context.Background(), "", tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if report.Year != tt.wantYear || report.Congress != tt.wantCongress {
				t.Errorf("got year %d congress %d, want %d / %d", report.Year, report.Congress, tt.wantYear, tt.wantCongress)
			}
		})
	}
}

func TestExtractText_MismatchedSessionWarns(t *testing.T) {
	p := newTestPipeline(t, testDirectory(), time.Now())
	report, err := p.ExtractText(context.Background(), "Roll Call 1", Options{Year: 2020, Congress: 118})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Year != 2020 || report.Congress != 118 {
		t.Errorf("explicit values should be kept, got %d / %d", report.Year, report.Congress)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "not in congress 118") {
		t.Errorf("expected mismatch warning, got %v", report.Warnings)
	}
}

func TestExtractText_NoDirectory(t *testing.T) {
	p := newTestPipeline(t, nil, time.Now())
	report, err := p.ExtractText(context.Background(), recordText, Options{Year: 2023})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.RollIDs) != 1 {
		t.Errorf("roll calls should still be extracted, got %v", report.RollIDs)
	}
	if report.Legislators == nil || len(report.Legislators) != 0 {
		t.Errorf("expected empty legislators, got %v", report.Legislators)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "no directory") {
		t.Errorf("expected directory warning, got %v", report.Warnings)
	}
}

func TestExtractText_Senate(t *testing.T) {
	p := newTestPipeline(t, testDirectory(), time.Now())
	report, err := p.ExtractText(context.Background(), recordText, Options{Chamber: model.ChamberSenate, Year: 2023})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(report.RollIDs, []string{"s123-2023"}) {
		t.Errorf("RollIDs = %v", report.RollIDs)
	}
	if len(report.BioguideIDs) != 0 {
		t.Errorf("expected no senate resolution, got %v", report.BioguideIDs)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "House only") {
		t.Errorf("expected chamber warning, got %v", report.Warnings)
	}
}

func TestExtractText_LastMentionOnly(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Extract.LastMentionOnly = true
	p, err := New(cfg, testDirectory(), nil)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	report, err := p.ExtractText(context.Background(), "Mr. Smith of CA yielded to Ms. Pelosi (CA)", Options{Year: 2023})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(report.BioguideIDs, []string{"P000197"}) {
		t.Errorf("BioguideIDs = %v", report.BioguideIDs)
	}
}

func TestNew_InvalidChamber(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Extract.Chamber = "parliament"
	if _, err := New(cfg, nil, nil); err == nil {
		t.Error("expected error for unknown chamber")
	}
}

func TestExtract_HTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.html")
	page := `<html><body><pre>Roll no. 77 on H. Con. Res. 12</pre><script>Roll Call 99</script></body></html>`
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	p := newTestPipeline(t, testDirectory(), time.Now())
	report, err := p.Extract(context.Background(), path, Options{Year: 2024})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Source != path || report.Adapter != "html" {
		t.Errorf("unexpected source %q adapter %q", report.Source, report.Adapter)
	}
	if !reflect.DeepEqual(report.RollIDs, []string{"h77-2024"}) {
		t.Errorf("RollIDs = %v", report.RollIDs)
	}
	if !reflect.DeepEqual(report.BillIDs, []string{"hconres12-118"}) {
		t.Errorf("BillIDs = %v", report.BillIDs)
	}
}

func TestExtract_Stdin(t *testing.T) {
	p, err := NewWithInput(model.DefaultConfig(), nil, nil, strings.NewReader("Roll Call 5"))
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	report, err := p.Extract(context.Background(), StdinPath, Options{Year: 2023})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Adapter != "plain" || !reflect.DeepEqual(report.RollIDs, []string{"h5-2023"}) {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	p := newTestPipeline(t, nil, time.Now())
	if _, err := p.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoader_SizeLimit(t *testing.T) {
	dir := t.TempDir()
	exact := filepath.Join(dir, "exact.txt")
	large := filepath.Join(dir, "large.txt")
	_ = os.WriteFile(exact, []byte("12345"), 0644)
	_ = os.WriteFile(large, []byte("123456"), 0644)

	loader := NewLoader(5, nil)

	if doc, err := loader.Load(exact); err != nil || string(doc.Raw) != "12345" {
		t.Errorf("expected exact-size document to load, got %v", err)
	}
	if _, err := loader.Load(large); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}

	if doc, err := NewLoader(0, nil).Load(large); err != nil || len(doc.Raw) != 6 {
		t.Errorf("expected unlimited loader to read everything, got %v", err)
	}
}

func sampleReport() *model.Report {
	return &model.Report{
		Source:      "record.txt",
		Adapter:     "plain",
		Chamber:     model.ChamberHouse,
		Year:        2023,
		Congress:    118,
		ExtractedAt: "2023-06-01T12:00:00Z",
		RollIDs:     []string{"h123-2023"},
		BillIDs:     []string{"hr45-118", "s45-118"},
		Legislators: []string{},
		BioguideIDs: []string{},
		Warnings:    []string{"legislator resolution skipped: no directory configured"},
	}
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer().Render(&buf, sampleReport(), FormatJSON); err != nil {
		t.Fatalf("render: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected valid JSON: %v", err)
	}
	for _, key := range []string{"roll_ids", "bill_ids", "legislator_names", "bioguide_ids", "congress"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if ids, ok := decoded["bioguide_ids"].([]interface{}); !ok || len(ids) != 0 {
		t.Errorf("expected empty array for bioguide_ids, got %v", decoded["bioguide_ids"])
	}
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer().Render(&buf, sampleReport(), FormatYAML); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "roll_ids:") || !strings.Contains(out, "- hr45-118") {
		t.Errorf("unexpected YAML:\n%s", out)
	}
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer().Render(&buf, sampleReport(), FormatText); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Source:      record.txt (plain)",
		"Bills:       hr45-118, s45-118",
		"Legislators: (none)",
		"Warning:     legislator resolution skipped",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "record.json")
	if err := NewRenderer().RenderJSONFile(sampleReport(), path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Congress != 118 || len(report.BillIDs) != 2 {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, " text ": FormatText}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}
