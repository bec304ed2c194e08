package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/weatherchat/internal/adapters/pdf"
	"github.com/PabloGalante/weatherchat/internal/domain"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a session to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfgFile, true)
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.store.Get(domain.SessionID(args[0]))
			if err != nil {
				return err
			}
			if output == "" {
				output = pdf.FileName(sess)
			}

			if err := a.exporter.WriteFile(output, sess); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default weather-chat-<date>.pdf)")
	return cmd
}
