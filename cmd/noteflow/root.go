package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/NUMNIMx/noteflow/internal/platform"
)

var (
	verbose    bool
	dataDir    string
	configPath string
	remoteKind string
	userID     string
	readOnly   bool

	cfg       *platform.Config
	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "noteflow",
	Short: "Local-first notes with background sync",
	Long: `NoteFlow keeps your notes in a local JSON file and, when a remote is
configured, uploads the whole notebook a moment after you stop editing.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		overrides := map[string]any{}
		if dataDir != "" {
			overrides["data_dir"] = dataDir
		}
		if readOnly {
			overrides["read_only"] = true
		}
		if remoteKind != "" {
			overrides["remote.kind"] = remoteKind
		}
		if userID != "" {
			overrides["remote.user"] = userID
		}

		loaded, err := platform.LoadConfig(configPath, overrides)
		if err != nil {
			fatal("Failed to load config", err)
		}
		if dataDir == "" && loaded.DataDir == platform.DefaultDataDir() {
			loaded.DataDir = platform.ResolveDataDir("", loaded.DataDir)
		}
		cfg = loaded

		logger, closer := platform.NewLogger(cfg.Log, verbose, os.Stderr)
		slog.SetDefault(logger)
		logCloser = closer
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", "", "Data directory (default: discovered or $XDG_DATA_HOME/noteflow)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./noteflow.yaml or ~/.config/noteflow/noteflow.yaml)")
	rootCmd.PersistentFlags().StringVar(&remoteKind, "remote", "", "Remote kind: none, memory, sql, s3, http")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "User id to sync as")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Never write the local file")
}
