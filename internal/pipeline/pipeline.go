// Package pipeline runs every extractor over one document and assembles the report.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/legisref/internal/calendar"
	"github.com/ppiankov/legisref/internal/extract"
	"github.com/ppiankov/legisref/internal/model"
	"github.com/ppiankov/legisref/internal/source"
)

// Options carries per-document context. Zero values fall back to the
// configured chamber and the current legislative year.
type Options struct {
	Chamber     model.Chamber
	Year        int
	Congress    int
	ContentType string
}

// Pipeline orchestrates loading, text conversion and extraction
type Pipeline struct {
	loader   *Loader
	registry *source.Registry
	resolver *extract.Resolver // nil when no directory is configured
	chamber  model.Chamber
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a pipeline. dir may be nil, which disables legislator resolution.
func New(cfg *model.Config, dir extract.Directory, logger *zap.Logger) (*Pipeline, error) {
	return NewWithInput(cfg, dir, logger, nil)
}

// NewWithInput is New with an explicit reader for "-"
func NewWithInput(cfg *model.Config, dir extract.Directory, logger *zap.Logger, stdin io.Reader) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	chamber := model.ChamberHouse
	if cfg.Extract.Chamber != "" {
		c, err := model.ParseChamber(cfg.Extract.Chamber)
		if err != nil {
			return nil, fmt.Errorf("extract.chamber: %w", err)
		}
		chamber = c
	}

	var resolver *extract.Resolver
	if dir != nil {
		opts := []extract.Option{extract.WithLogger(logger)}
		if cfg.Extract.LastMentionOnly {
			opts = append(opts, extract.WithLastMentionOnly())
		}
		resolver = extract.NewResolver(dir, opts...)
	}

	return &Pipeline{
		loader:   NewLoader(cfg.Input.MaxBytes, stdin),
		registry: source.NewRegistry(),
		resolver: resolver,
		chamber:  chamber,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Extract loads the document at path ("-" for stdin) and extracts its references
func (p *Pipeline) Extract(ctx context.Context, path string, opts Options) (*model.Report, error) {
	doc, err := p.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	adapter := p.registry.FindAdapter(path, opts.ContentType)
	text, err := adapter.Text(doc.Raw)
	if err != nil {
		return nil, fmt.Errorf("%s adapter: %w", adapter.Name(), err)
	}

	report, err := p.ExtractText(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	report.Source = path
	report.Adapter = adapter.Name()

	p.logger.Info("extracted references",
		zap.String("source", path),
		zap.String("adapter", adapter.Name()),
		zap.Int("roll_ids", len(report.RollIDs)),
		zap.Int("bill_ids", len(report.BillIDs)),
		zap.Int("bioguide_ids", len(report.BioguideIDs)),
	)

	return report, nil
}

// ExtractText runs the roll-call, bill and legislator extractors over text
func (p *Pipeline) ExtractText(ctx context.Context, text string, opts Options) (*model.Report, error) {
	chamber := opts.Chamber
	if chamber == "" {
		chamber = p.chamber
	}

	report := &model.Report{
		Chamber:     chamber,
		ExtractedAt: calendar.RFC3339(p.now()),
		Legislators: []string{},
		BioguideIDs: []string{},
	}
	report.Year, report.Congress = p.session(opts, report)

	report.RollIDs = extract.RollCalls(text, chamber, report.Year)
	report.BillIDs = extract.Bills(text, report.Congress)

	switch {
	case p.resolver == nil:
		report.Warnings = append(report.Warnings, "legislator resolution skipped: no directory configured")
	case chamber != model.ChamberHouse:
		report.Warnings = append(report.Warnings, fmt.Sprintf("legislator resolution skipped: %v", extract.ErrUnsupportedChamber))
	default:
		res, err := p.resolver.Resolve(ctx, text, chamber)
		if err != nil {
			return nil, fmt.Errorf("resolve legislators: %w", err)
		}
		report.Legislators = res.Names
		report.BioguideIDs = res.BioguideIDs
	}

	return report, nil
}

// session fills in the year and congress a document is dated to
func (p *Pipeline) session(opts Options, report *model.Report) (int, int) {
	year, congress := opts.Year, opts.Congress

	switch {
	case year == 0 && congress == 0:
		year = calendar.LegislativeYear(calendar.InEastern(p.now()))
		congress = calendar.CongressForYear(year)
	case congress == 0:
		congress = calendar.CongressForYear(year)
	case year == 0:
		years := calendar.YearsForCongress(congress)
		year = years[0]
		if current := calendar.LegislativeYear(calendar.InEastern(p.now())); current == years[1] {
			year = current
		}
	default:
		if calendar.CongressForYear(year) != congress {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("year %d is not in congress %d", year, congress))
		}
	}

	return year, congress
}

// Adapters lists the available source adapters
func (p *Pipeline) Adapters() []string {
	return p.registry.Names()
}
