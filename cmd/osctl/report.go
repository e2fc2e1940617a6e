package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"osboard/internal/service"
)

func newReportCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Ask the AI for a briefing on pending orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := a.dash.Report(cmd.Context())
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(text))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return text + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for DASHBOARD_PASSWORD_HASH",
		Long: `Print a bcrypt hash for DASHBOARD_PASSWORD_HASH.

Without an argument the password is read from the first line of stdin.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"offline": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("password must not be empty")
			}

			hash, err := service.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
