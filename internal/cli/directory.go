package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/legisref/internal/directory"
	"github.com/ppiankov/legisref/internal/model"
)

var (
	importDB      string
	lookupLast    string
	lookupFirst   string
	lookupState   string
	lookupGender  string
	lookupChamber string
	lookupJSON    bool
)

// directoryCmd represents the directory command
var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Manage the legislator directory",
	Long: `Import congress-legislators YAML into a SQLite directory and query it.

The YAML format is the one published by the unitedstates/congress-legislators
project (legislators-current.yaml, legislators-historical.yaml).`,
}

var directoryImportCmd = &cobra.Command{
	Use:   "import <legislators.yaml>",
	Short: "Import congress-legislators YAML into a SQLite directory",
	Long: `Import upserts every legislator of the YAML file into the SQLite database,
keyed by bioguide ID. Re-importing a newer file updates existing records.

Example:
  legisref directory import legislators-current.yaml --db ~/.legisref/members.db`,
	Args: cobra.ExactArgs(1),
	RunE: runDirectoryImport,
}

var directoryLookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up legislators in the configured directory",
	Long: `Lookup queries the directory with the same exact-match filter the resolver
uses. Unset fields match anything.

Example:
  legisref directory lookup --last Pelosi --state CA
  legisref directory lookup --last Smith --gender M --json`,
	Args: cobra.NoArgs,
	RunE: runDirectoryLookup,
}

func init() {
	rootCmd.AddCommand(directoryCmd)
	directoryCmd.AddCommand(directoryImportCmd)
	directoryCmd.AddCommand(directoryLookupCmd)

	directoryCmd.PersistentFlags().StringVar(&directoryFlag, "directory", "", "legislator directory (YAML or SQLite); overrides directory.path")

	directoryImportCmd.Flags().StringVar(&importDB, "db", "", "SQLite database to write (default: directory.path)")

	directoryLookupCmd.Flags().StringVar(&lookupLast, "last", "", "last name")
	directoryLookupCmd.Flags().StringVar(&lookupFirst, "first", "", "first name")
	directoryLookupCmd.Flags().StringVar(&lookupState, "state", "", "two-letter state code")
	directoryLookupCmd.Flags().StringVar(&lookupGender, "gender", "", "M or F")
	directoryLookupCmd.Flags().StringVar(&lookupChamber, "chamber", "", "house or senate")
	directoryLookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print matches as JSON")
}

func runDirectoryImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("directory") {
		cfg.Directory.Path = directoryFlag
		cfg.Directory.Kind = ""
	}

	dbPath := importDB
	if dbPath == "" {
		kind := cfg.Directory.Kind
		if kind == "" && cfg.Directory.Path != "" {
			kind, _ = directory.InferKind(cfg.Directory.Path)
		}
		if kind != directory.KindSQLite {
			return fmt.Errorf("no SQLite directory configured: pass --db or set directory.path to a .db file")
		}
		dbPath = cfg.Directory.Path
	}

	legislators, err := directory.LoadYAML(args[0])
	if err != nil {
		return err
	}

	store, err := directory.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	n, err := store.Import(ctx, legislators)
	if err != nil {
		return fmt.Errorf("import failed after %d records: %w", n, err)
	}

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d legislators into %s (%d total)\n", n, dbPath, total)
	return nil
}

func lookupFilter() (model.Filter, error) {
	filter := model.Filter{
		LastName:  lookupLast,
		FirstName: lookupFirst,
		State:     strings.ToUpper(lookupState),
	}

	switch strings.ToUpper(lookupGender) {
	case "":
	case "M":
		filter.Gender = model.GenderMale
	case "F":
		filter.Gender = model.GenderFemale
	default:
		return filter, fmt.Errorf("unknown gender: %q (expected M or F)", lookupGender)
	}

	if lookupChamber != "" {
		chamber, err := model.ParseChamber(lookupChamber)
		if err != nil {
			return filter, err
		}
		filter.Chamber = chamber
	}

	return filter, nil
}

func runDirectoryLookup(cmd *cobra.Command, args []string) error {
	filter, err := lookupFilter()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("directory") {
		cfg.Directory.Path = directoryFlag
		cfg.Directory.Kind = ""
	}
	// One-off queries gain nothing from the lookup cache
	cfg.Cache.Enabled = false

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	finder, closer, err := directory.Open(cfg.Directory, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	matches, err := finder.Find(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if lookupJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if len(matches) == 0 {
		fmt.Fprintf(out, "No legislators match %s\n", filter)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BIOGUIDE\tNAME\tGENDER\tCHAMBER\tSTATE")
	for _, l := range matches {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n", l.BioguideID, l.FirstName, l.LastName, l.Gender, l.Chamber, l.State)
	}
	return w.Flush()
}
