package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "weatherchat",
		Short: "Conversational weather assistant",
		Long:  "weatherchat answers weather questions by combining a live weather agent with Gemini, keeping chats in persistent sessions.",
		// Running weatherchat with no subcommand starts the terminal chat.
		RunE:          runChat,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file (env vars override it)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSessionsCmd())

	return rootCmd
}
