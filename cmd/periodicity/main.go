// periodicity runs the combat simulation headless.
//
// Usage:
//
//	periodicity run [--frames N]   - Run the frame loop until interrupted
//	periodicity spells             - Print the spell catalog
//
// Global flags:
//
//	--config <path>  - Config file (default: $PERIODICITY_CONFIG or config/periodicity.toml)
//
// A .env file in the working directory is loaded before the config path is
// resolved.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/periodicity/sim/internal/config"
)

var flagConfig string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "periodicity",
	Short:             "Periodicity combat simulation",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadEnv,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (default $PERIODICITY_CONFIG or config/periodicity.toml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(spellsCmd)
}

func loadEnv(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// configPath resolves --config, then PERIODICITY_CONFIG, then the default.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	if p := os.Getenv("PERIODICITY_CONFIG"); p != "" {
		return p
	}
	return "config/periodicity.toml"
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[35;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[35;1m  │\033[0m              Periodicity                  \033[35;1m│\033[0m")
	fmt.Println("\033[35;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
