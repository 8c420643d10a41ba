package command

// root.go defines the libctl root command and the helpers shared by its
// subcommands.

import (
	"fmt"
	"log/slog"
	"os"

	"libmanage/internal/config"
	"libmanage/internal/logger"

	"github.com/spf13/cobra"
)

// loadConfig is swapped in tests.
var loadConfig = config.LoadConfig

var rootCmd = &cobra.Command{
	Use:   "libctl",
	Short: "libctl - library lending operations tool",
	Long: `libctl runs the library lending server and its maintenance jobs:
- serve the HTTP API
- run one overdue reminder scan (for cron)
- mint development access tokens

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadRuntime() (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr), nil
}
