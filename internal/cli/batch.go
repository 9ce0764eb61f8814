package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/legisref/internal/pipeline"
	"github.com/ppiankov/legisref/internal/worker"
)

// manifestName is the batch index written next to the reports
const manifestName = "_manifest.json"

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Extract references from many documents in parallel",
	Long: `Batch reads document paths from a list file (one per line, # comments
allowed; relative paths are relative to the list file) and writes one JSON
report per document to the output directory.

A failed document is reported and skipped; the rest of the batch continues.

Example:
  legisref batch records.txt --year 2023
  legisref batch records.txt --concurrency 8 --output-dir ./reports --directory members.db`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./legisref-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared with extract
	batchCmd.Flags().StringVar(&chamberFlag, "chamber", "", "chamber the documents come from: house or senate")
	batchCmd.Flags().IntVar(&yearFlag, "year", 0, "legislative year for roll IDs (default: current)")
	batchCmd.Flags().IntVar(&congressFlag, "congress", 0, "congress for bill IDs (default: derived from year)")
	batchCmd.Flags().StringVar(&directoryFlag, "directory", "", "legislator directory (YAML or SQLite)")
	batchCmd.Flags().BoolVar(&lastMentionOnly, "last-mention-only", false, "count only the last legislator mention")
	batchCmd.Flags().StringVar(&contentType, "content-type", "", "content type of every input (default: from file extension)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := extractOptions(cmd, cfg)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Input file:   %s\n", file)
	fmt.Fprintf(out, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(out, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(out, "  Directory:    %s\n", valueOr(cfg.Directory.Path, "(none)"))
	fmt.Fprintf(out, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	dir, closeDir, err := openDirectory(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDir()

	p, err := pipeline.New(cfg, dir, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	manifest := worker.NewManifest(time.Now())

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, opts, logger)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.Path
	}
	names := worker.OutputNames(paths, manifestName)
	renderer := pipeline.NewRenderer()

	written := 0
	for i, result := range results {
		if result.Error != nil {
			manifest.Add(result.Path, "", result.Error)
			fmt.Fprintf(out, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		result.Report.BatchID = manifest.BatchID
		jsonPath := filepath.Join(outputDir, names[i])
		if err := renderer.RenderJSONFile(result.Report, jsonPath); err != nil {
			manifest.Add(result.Path, "", err)
			fmt.Fprintf(out, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		manifest.Add(result.Path, names[i], nil)
		written++

		fmt.Fprintf(out, "✓ %s: %d roll calls, %d bills, %d legislators\n",
			result.Path, len(result.Report.RollIDs), len(result.Report.BillIDs), len(result.Report.BioguideIDs))
	}

	if err := manifest.Write(filepath.Join(outputDir, manifestName)); err != nil {
		return err
	}

	succeeded, failed := worker.Summarize(results)

	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(out, "  Extracted: %d\n", succeeded)
	fmt.Fprintf(out, "  Failures:  %d\n", failed)
	fmt.Fprintf(out, "  Written:   %d\n", written)
	fmt.Fprintf(out, "  Output:    %s\n", outputDir)
	fmt.Fprintf(out, "  Batch ID:  %s\n", manifest.BatchID)
	fmt.Fprintf(out, "\n")

	return nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
