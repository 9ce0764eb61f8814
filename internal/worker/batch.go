package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/legisref/internal/model"
	"github.com/ppiankov/legisref/internal/pipeline"
)

// Extractor extracts references from one document
type Extractor interface {
	Extract(ctx context.Context, path string, opts pipeline.Options) (*model.Report, error)
}

// ExtractJob extracts one document
type ExtractJob struct {
	Index     int
	Path      string
	Options   pipeline.Options
	Extractor Extractor
}

// Execute executes the extraction job
func (j *ExtractJob) Execute(ctx context.Context) Result {
	report, err := j.Extractor.Extract(ctx, j.Path, j.Options)
	if err != nil {
		return &ExtractResult{
			Index: j.Index,
			Path:  j.Path,
			Error: err,
		}
	}
	return &ExtractResult{
		Index:  j.Index,
		Path:   j.Path,
		Report: report,
	}
}

// ExtractResult represents the result of an extraction job
type ExtractResult struct {
	Index  int
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the extraction result
func (r *ExtractResult) GetError() error {
	return r.Error
}

// BatchProcessor extracts many documents concurrently
type BatchProcessor struct {
	extractor   Extractor
	concurrency int
	options     pipeline.Options
	logger      *zap.Logger
}

// NewBatchProcessor creates a batch processor applying opts to every document
func NewBatchProcessor(extractor Extractor, concurrency int, opts pipeline.Options, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
		options:     opts,
		logger:      logger,
	}
}

// ProcessPaths extracts every path and returns one result per path, in input order.
// A failed document does not stop the others.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*ExtractResult {
	if len(paths) == 0 {
		return []*ExtractResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, path := range paths {
		job := &ExtractJob{
			Index:     i,
			Path:      path,
			Options:   b.options,
			Extractor: b.extractor,
		}
		if !pool.Submit(job) {
			break
		}
	}

	ordered := make([]*ExtractResult, len(paths))
	for _, result := range pool.Wait() {
		r := result.(*ExtractResult)
		ordered[r.Index] = r
	}

	// Jobs never run when ctx is canceled mid-batch
	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("not processed")
			}
			ordered[i] = &ExtractResult{Index: i, Path: paths[i], Error: err}
		}
		if ordered[i].Error != nil {
			b.logger.Warn("extraction failed",
				zap.String("path", paths[i]),
				zap.Error(ordered[i].Error),
			)
		}
	}

	return ordered
}

// ProcessFile reads document paths from a list file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*ExtractResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads document paths (one per line). Relative paths are
// taken relative to the list file's directory.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		line = filepath.Clean(line)

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// OutputName maps a document path to its report file name, e.g.
// "records/2023-01-09.html" -> "2023-01-09.json"
func OutputName(path string) string {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	return name + ".json"
}

// OutputNames assigns each path a distinct report file name. Repeated base
// names get a numeric suffix, e.g. "a/record.txt", "b/record.txt" ->
// "record.json", "record-2.json". Names in reserved are never handed out.
func OutputNames(paths []string, reserved ...string) []string {
	names := make([]string, len(paths))
	taken := make(map[string]bool, len(paths)+len(reserved))
	for _, name := range reserved {
		taken[name] = true
	}

	for i, path := range paths {
		stem := strings.TrimSuffix(OutputName(path), ".json")
		name := stem + ".json"
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s-%d.json", stem, n)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// Summarize counts successful and failed results
func Summarize(results []*ExtractResult) (succeeded, failed int) {
	for _, r := range results {
		if r.Error != nil {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}
