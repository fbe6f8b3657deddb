package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hwells/adjutant/internal/config"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "development"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and configuration",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Printf("adjutant %s\n", AppVersion)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	fmt.Println("Configuration:")
	fmt.Printf("  Model: %s\n", cfg.ModelName)
	fmt.Printf("  Database: %s\n", cfg.DatabasePath)
	fmt.Printf("  History window: %d messages\n", cfg.MaxHistoryMessages)
	fmt.Printf("  Log level: %s\n", cfg.LogLevel)

	if key := cfg.GeminiAPIKey; len(key) >= 8 {
		fmt.Printf("  Gemini API key: %s...%s (configured)\n", key[:4], key[len(key)-4:])
	} else if key != "" {
		fmt.Println("  Gemini API key: configured")
	} else {
		fmt.Println("  Gemini API key: not set")
		fmt.Println()
		fmt.Println("Hint: export GEMINI_API_KEY=your-api-key")
	}

	return nil
}
