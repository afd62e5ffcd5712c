package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lite-lake/tenten-ddns/internal/infrastructure/state"
)

func newStatusCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last successful update",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), ctx, false)
			if err != nil {
				reportConfigError(ctx, err)
				return errReported
			}

			rec, err := state.NewFileStore(cfg.StateFile).Load(cmd.Context())
			if err != nil {
				return err
			}
			if rec == nil {
				fmt.Fprintln(ctx.Stdout, WarningStyle.Render("No successful update recorded yet."))
				return nil
			}

			fmt.Fprintln(ctx.Stdout, TitleStyle.Render("Last successful update"))
			fmt.Fprintf(ctx.Stdout, "  %s %s\n", LabelStyle.Render("ip:"), rec.IP)
			fmt.Fprintf(ctx.Stdout, "  %s %s\n", LabelStyle.Render("outcome:"), rec.Outcome)
			fmt.Fprintf(ctx.Stdout, "  %s %s\n", LabelStyle.Render("at:"), rec.UpdatedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(ctx.Stdout, "  %s %s\n", LabelStyle.Render("run:"), rec.RunID)
			return nil
		},
	}
}
