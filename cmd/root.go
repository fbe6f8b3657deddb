// Package cmd defines the adjutant command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adjutant",
	Short: "Adjutant - a personal assistant in your terminal",
	Long: `Adjutant is a terminal chat assistant backed by the Gemini API.

It keeps one persistent conversation, can schedule meetings, send
emails, and manage a to-do list through model function calling, and
also accepts the same actions directly as slash commands:

  /schedule <topic>|<time>
  /email <recipient>|<subject>|<body>
  /todo add <task> | /todo list | /todo clear

Running adjutant without a subcommand starts the interactive chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
