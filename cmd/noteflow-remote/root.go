package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/NUMNIMx/noteflow/internal/platform"
)

var (
	verbose    bool
	configPath string

	cfg       *platform.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "noteflow-remote",
	Short: "HTTP document store for NoteFlow clients",
	Long: `noteflow-remote serves one JSON document per user over HTTP, backed by
the SQL or S3 store named in remote.kind.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded, err := platform.LoadConfig(configPath, nil)
		if err != nil {
			fatal("Failed to load config", err)
		}
		cfg = loaded

		logger, closer := platform.NewLogger(cfg.Log, verbose, os.Stderr)
		slog.SetDefault(logger)
		logCloser = closer

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./noteflow.yaml or ~/.config/noteflow/noteflow.yaml)")
}
