package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hwells/adjutant/internal/app"
	"github.com/hwells/adjutant/internal/config"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the conversation and all to-do items",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
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

	if !resetYes {
		fmt.Printf("This deletes %d messages and %d to-do items. Continue? [y/N] ",
			len(a.Session.Messages()), len(a.Session.Todos()))

		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			fmt.Println("\nAborted.")
			return nil
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := a.Session.Reset(ctx); err != nil {
		return fmt.Errorf("resetting conversation: %w", err)
	}
	fmt.Println("Conversation and to-do list cleared.")
	return nil
}
