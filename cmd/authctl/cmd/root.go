package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pilab-dev/osm-auth/config"
	"github.com/pilab-dev/osm-auth/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const appName = "authctl"

var (
	appLogger log.Logger
	cfg       *config.ServerConfig
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "authctl inspects and exercises the OSM login service",
	Long: `A command-line companion for the OSM login service. It reads the same
configuration as the server (config.yaml and environment variables).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		appLogger = log.NewZerologAdapterWithWriter(cmd.ErrOrStderr(), level, true)

		loaded, err := config.LoadConfig()
		if err != nil {
			appLogger.Error(cmd.Context(), "Failed to load configuration", err)
			return err
		}
		cfg = loaded
		appLogger.Debug(cmd.Context(), "Configuration loaded", log.Fields{
			"osm_server_url": cfg.OSMServerURL,
			"state_store":    cfg.StateStore,
		})
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if appLogger != nil {
			appLogger.Error(context.Background(), "authctl failed", err)
		} else {
			fmt.Fprintln(os.Stderr, "authctl failed:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
