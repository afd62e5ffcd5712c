package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lite-lake/tenten-ddns/internal/infrastructure/browser"
)

func newInstallCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "install-browser",
		Short: "Download the Playwright driver and Chromium",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(ctx.Stdout, LabelStyle.Render("Installing Playwright driver and Chromium..."))
			if err := browser.Install(); err != nil {
				return fmt.Errorf("installing browser: %w", err)
			}
			fmt.Fprintf(ctx.Stdout, "%s Browser installed.\n", SuccessStyle.Render(iconOK))
			return nil
		},
	}
}
