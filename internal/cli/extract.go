package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/legisref/internal/model"
	"github.com/ppiankov/legisref/internal/pipeline"
)

var (
	chamberFlag     string
	yearFlag        int
	congressFlag    int
	directoryFlag   string
	formatFlag      string
	lastMentionOnly bool
	contentType     string
	extractTimeout  time.Duration
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [file|-]",
	Short: "Extract references from one document",
	Long: `Extract reads one document (plain text or HTML; "-" or no argument reads
stdin) and prints the roll-call IDs, bill IDs and legislators it references.

Roll IDs use the legislative year and bill IDs the congress. Both default to
the current session; --year or --congress date older documents.

Example:
  legisref extract record.txt --year 2023
  legisref extract record.html --directory legislators-current.yaml --format text
  cat record.txt | legisref extract - --congress 117 --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&chamberFlag, "chamber", "", "chamber the text comes from: house or senate (default from config)")
	extractCmd.Flags().IntVar(&yearFlag, "year", 0, "legislative year for roll IDs (default: current)")
	extractCmd.Flags().IntVar(&congressFlag, "congress", 0, "congress for bill IDs (default: derived from year)")
	extractCmd.Flags().StringVar(&directoryFlag, "directory", "", "legislator directory (YAML or SQLite); overrides directory.path")
	extractCmd.Flags().StringVar(&formatFlag, "format", "json", "output format: json, yaml or text")
	extractCmd.Flags().BoolVar(&lastMentionOnly, "last-mention-only", false, "count only the last legislator mention")
	extractCmd.Flags().StringVar(&contentType, "content-type", "", "content type of the input, e.g. text/html (default: from file extension)")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", time.Minute, "overall extraction timeout")
}

// extractOptions applies the shared extraction flags to cfg and returns the per-document options
func extractOptions(cmd *cobra.Command, cfg *model.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		Year:        yearFlag,
		Congress:    congressFlag,
		ContentType: contentType,
	}

	if cmd.Flags().Changed("chamber") {
		chamber, err := model.ParseChamber(chamberFlag)
		if err != nil {
			return opts, err
		}
		opts.Chamber = chamber
	}
	if cmd.Flags().Changed("directory") {
		cfg.Directory.Path = directoryFlag
		cfg.Directory.Kind = ""
	}
	if cmd.Flags().Changed("last-mention-only") {
		cfg.Extract.LastMentionOnly = lastMentionOnly
	}
	if yearFlag < 0 || congressFlag < 0 {
		return opts, fmt.Errorf("--year and --congress must be positive")
	}

	return opts, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := pipeline.StdinPath
	if len(args) == 1 {
		path = args[0]
	}

	format, err := pipeline.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := extractOptions(cmd, cfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dir, closeDir, err := openDirectory(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDir()

	p, err := pipeline.NewWithInput(cfg, dir, logger, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	logger.Debug("extracting", zap.String("path", path), zap.Int("year", opts.Year), zap.Int("congress", opts.Congress))

	report, err := p.Extract(ctx, path, opts)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	if verbose {
		for _, warning := range report.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}

	return pipeline.NewRenderer().Render(cmd.OutOrStdout(), report, format)
}
