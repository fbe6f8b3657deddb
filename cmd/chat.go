package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hwells/adjutant/internal/app"
	"github.com/hwells/adjutant/internal/command"
	"github.com/hwells/adjutant/internal/config"
	"github.com/hwells/adjutant/internal/ui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
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

	fmt.Println(ui.TitleStyle.Render("adjutant " + AppVersion))
	fmt.Println("Type /help for commands, /quit or Ctrl+D to exit.")
	if n := len(a.Session.Messages()); n > 0 {
		fmt.Printf("Resumed conversation with %d messages.\n", n)
	}
	fmt.Println()

	prompt := ui.PromptStyle.Render("you> ")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt)

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch input {
		case "/help":
			printHelp()
			continue
		case "/exit", "/quit":
			fmt.Println("Goodbye!")
			return nil
		}

		// Slash commands short-circuit the model entirely.
		if parsed := command.Parse(input); parsed.Matched {
			if parsed.Usage != "" {
				fmt.Println(ui.ErrorStyle.Render(parsed.Usage))
				continue
			}

			text, todoMutated, err := a.Registry.Dispatch(ctx, parsed.Call)
			if err != nil {
				fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error: "+err.Error()))
				continue
			}
			if todoMutated {
				if err := a.Session.RefreshTodos(ctx); err != nil {
					fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error: "+err.Error()))
					continue
				}
			}
			fmt.Println(ui.ToolStyle.Render(text))
			continue
		}

		fmt.Print("assistant> ")

		result, err := a.Agent.ExecuteStream(ctx, a.Session, input, func(_ context.Context, chunk string) error {
			fmt.Print(chunk)
			return nil
		})
		if err != nil {
			// A failed turn leaves the conversation intact.
			fmt.Println()
			fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error: "+err.Error()))
			continue
		}

		if !result.Streamed {
			fmt.Print(result.FinalText)
		}
		fmt.Println()

		for _, tr := range result.ToolResults {
			fmt.Println(ui.ToolStyle.Render(fmt.Sprintf("  [%s] %s", tr.Name, tr.Text)))
		}
		fmt.Println()
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /schedule <topic>|<time>              schedule a meeting")
	fmt.Println("  /email <recipient>|<subject>|<body>   send an email")
	fmt.Println("  /todo add <task>                      add a to-do item")
	fmt.Println("  /todo list                            list to-do items")
	fmt.Println("  /todo clear                           clear all to-do items")
	fmt.Println("  /help                                 show this help")
	fmt.Println("  /quit                                 exit (also /exit, Ctrl+D)")
	fmt.Println()
	fmt.Println("Anything else is sent to the assistant.")
	fmt.Println()
}
