package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hwells/adjutant/internal/app"
	"github.com/hwells/adjutant/internal/config"
	"github.com/hwells/adjutant/internal/tools"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage the to-do list without starting a chat",
}

var todoAddCmd = &cobra.Command{
	Use:   "add [task]",
	Short: "Add a to-do item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTodo(tools.ManageTodoArgs{
			Action: tools.ActionAdd,
			Task:   strings.Join(args, " "),
		})
	},
}

var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List to-do items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTodo(tools.ManageTodoArgs{Action: tools.ActionList})
	},
}

var todoClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all to-do items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTodo(tools.ManageTodoArgs{Action: tools.ActionClear})
	},
}

func init() {
	todoCmd.AddCommand(todoAddCmd, todoListCmd, todoClearCmd)
	rootCmd.AddCommand(todoCmd)
}

// runTodo routes through the same registry the model and the slash
// commands use, so the output text is identical everywhere.
func runTodo(args tools.ManageTodoArgs) error {
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

	text, _, err := a.Registry.Dispatch(ctx, tools.Call{
		Kind: tools.KindManageTodo,
		Name: tools.NameManageTodo,
		Todo: &args,
	})
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
