package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/legisref/internal/directory"
	"github.com/ppiankov/legisref/internal/extract"
	"github.com/ppiankov/legisref/internal/logging"
	"github.com/ppiankov/legisref/internal/model"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "legisref",
	Short: "legisref - extract roll-call, bill and legislator references from legislative text",
	Long: `legisref reads floor proceedings, Congressional Record pages and similar
legislative text and pulls out structured references:

- roll-call vote IDs such as h123-2023
- bill IDs such as hr45-118
- legislator mentions such as "Mr. Smith of CA", resolved to bioguide IDs
  against a legislator directory (YAML or SQLite)

Matching is pattern based. It does not understand the text.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "legisref %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.legisref/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// configDir returns ~/.legisref
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error finding home directory: %w", err)
	}
	return filepath.Join(home, ".legisref"), nil
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return
		}

		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LEGISREF_*, e.g. LEGISREF_DIRECTORY_PATH
	viper.SetEnvPrefix("LEGISREF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults(model.DefaultConfig())

	err := viper.ReadInConfig()
	switch {
	case err == nil && verbose:
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	case err != nil && cfgFile != "":
		fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", cfgFile, err)
	}
}

// setDefaults registers every config key so env overrides reach Unmarshal
func setDefaults(cfg *model.Config) {
	viper.SetDefault("directory.path", cfg.Directory.Path)
	viper.SetDefault("directory.kind", cfg.Directory.Kind)
	viper.SetDefault("directory.lookups_per_second", cfg.Directory.LookupsPerSecond)
	viper.SetDefault("directory.burst", cfg.Directory.Burst)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.ttl", cfg.Cache.TTL)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
	viper.SetDefault("extract.chamber", cfg.Extract.Chamber)
	viper.SetDefault("extract.last_mention_only", cfg.Extract.LastMentionOnly)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("input.max_bytes", cfg.Input.MaxBytes)
	viper.SetDefault("logging.level", cfg.Logging.Level)
	viper.SetDefault("logging.format", cfg.Logging.Format)
}

// loadConfig merges defaults, config file and environment
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the command logger; --verbose forces debug level
func newLogger(cfg *model.Config) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.New(level, cfg.Logging.Format)
}

// openDirectory opens the configured directory. A missing path is not an
// error: the returned directory is nil and resolution is skipped.
func openDirectory(cfg *model.Config, logger *zap.Logger) (extract.Directory, func(), error) {
	finder, closer, err := directory.Open(cfg.Directory, cfg.Cache, logger)
	if errors.Is(err, directory.ErrNoDirectory) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open directory: %w", err)
	}

	return finder, func() {
		if cerr := closer.Close(); cerr != nil {
			logger.Warn("failed to close directory", zap.Error(cerr))
		}
	}, nil
}
