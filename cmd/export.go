package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hwells/adjutant/internal/app"
	"github.com/hwells/adjutant/internal/config"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the conversation as JSON",
	Long: `Export writes the full persisted conversation (user, assistant, and
tool messages, in order) as a JSON array to stdout or to a file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	a, err := app.SetupOffline(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	data, err := a.Session.ExportJSON()
	if err != nil {
		return fmt.Errorf("exporting conversation: %w", err)
	}

	if len(args) == 1 {
		exportOutput = args[0]
	}
	if exportOutput == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(exportOutput, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	fmt.Printf("Exported %d messages to %s\n", len(a.Session.Messages()), exportOutput)
	return nil
}
