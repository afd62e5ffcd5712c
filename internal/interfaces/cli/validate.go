package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(ctx *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Long:  "Load and validate the configuration without starting a browser.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, ctx)
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, ctx *Context) error {
	cfg, err := loadConfig(cmd.Context(), ctx, true)
	if err != nil {
		reportConfigError(ctx, err)
		return errReported
	}

	fmt.Fprintf(ctx.Stdout, "%s Configuration is valid.\n", SuccessStyle.Render(iconOK))
	fmt.Fprintf(ctx.Stdout, "  %s %s\n", LabelStyle.Render("account:"), cfg.Credentials.Username)
	fmt.Fprintf(ctx.Stdout, "  %s %s\n", LabelStyle.Render("console:"), cfg.DomainSettings.DNSSettingsURL)
	fmt.Fprintf(ctx.Stdout, "  %s %d\n", LabelStyle.Render("login attempts:"), cfg.Automation.LoginAttempts)
	return nil
}
