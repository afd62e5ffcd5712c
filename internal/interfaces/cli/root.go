package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var Version = "dev"

// errReported marks a failure already shown to the user.
var errReported = errors.New("failed")

func newRootCommand(ctx *Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tenten-ddns",
		Short: "Dynamic DNS updater for tenten.vn",
		Long: "tenten-ddns keeps a DNS A record on the domain.tenten.vn console pointed at this\n" +
			"machine's public IP by driving a browser through the console's configure-by-IP form.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if ctx.ShowVersion {
				fmt.Fprintln(ctx.Stdout, Version)
				os.Exit(0)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if runUpdate(cmd.Context(), ctx) != 0 {
				return errReported
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.ConfigPath, "config", "c", ctx.ConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&ctx.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&ctx.ShowVersion, "version", false, "Show version information")
	rootCmd.Flags().StringVarP(&ctx.IP, "ip", "i", "", "Target IP address (auto-detect if not provided)")

	rootCmd.AddCommand(
		newValidateCommand(ctx),
		newStatusCommand(ctx),
		newInstallCommand(ctx),
	)
	return rootCmd
}

// run executes the command line and returns the process exit code.
func run(parent context.Context, c *Context, args []string) int {
	cmd := newRootCommand(c)
	cmd.SetArgs(args)
	cmd.SetOut(c.Stdout)
	cmd.SetErr(c.Stderr)

	if err := cmd.ExecuteContext(parent); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(c.Stdout, "%s %v\n", ErrorStyle.Render("Error:"), err)
		}
		return 1
	}
	return 0
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, NewContext(), os.Args[1:])
	stop()
	os.Exit(code)
}
