package cli

import (
	"fmt"
	"os"

	"nutriai/nutrition-app/internal/config"
	"nutriai/nutrition-app/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
)

// rootCmd is the base command; subcommands register themselves in init().
var rootCmd = &cobra.Command{
	Use:   "nutrictl",
	Short: "nutrictl runs nutrition backend tasks from the terminal",
	Long: "nutrictl shares configuration with the API server. It can generate a meal plan " +
		"without going through HTTP, look up packaged foods by barcode and create the " +
		"MongoDB indexes the server relies on.",
	SilenceUsage: true,
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory containing config.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level from config")
}

// loadRuntime reads config and builds the logger the same way the server does.
func loadRuntime() (config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}
