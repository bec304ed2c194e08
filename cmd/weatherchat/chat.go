package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/weatherchat/internal/adapters/terminal"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat in the terminal",
		RunE:  runChat,
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfgFile, true)
	if err != nil {
		return err
	}
	defer a.Close()

	return terminal.New(a.store, a.chat, a.exporter, os.Stdin, os.Stdout, terminal.Options{}).Run(ctx)
}
