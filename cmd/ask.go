package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hwells/adjutant/internal/app"
	"github.com/hwells/adjutant/internal/config"
	"github.com/hwells/adjutant/internal/ui"
)

var askPlain bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and exit",
	Long: `Ask sends one message through the same persistent conversation the
interactive chat uses, prints the answer, and exits. Tool calls are
dispatched exactly as in chat mode.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "print the raw answer without Markdown styling")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	a, err := app.Setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question must not be empty")
	}

	result, err := a.Agent.Execute(ctx, a.Session, question)
	if err != nil {
		return err
	}

	for _, tr := range result.ToolResults {
		fmt.Println(ui.ToolStyle.Render(fmt.Sprintf("[%s] %s", tr.Name, tr.Text)))
	}

	if askPlain {
		fmt.Println(result.FinalText)
		return nil
	}
	fmt.Println(ui.NewRenderer(0).Render(result.FinalText))
	return nil
}
