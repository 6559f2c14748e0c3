package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/accountsync/internal/app"
	"github.com/JonMunkholm/accountsync/internal/config"
	"github.com/JonMunkholm/accountsync/internal/core"
	"github.com/JonMunkholm/accountsync/internal/logging"
	"github.com/JonMunkholm/accountsync/internal/source"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envLoaded := godotenv.Overload() == nil

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "env_file", envLoaded, "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithRun(ctx, "")

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		logging.FromContext(ctx).Error("command failed", "error", err)
		fmt.Fprintf(os.Stdout, "Error: %s\n", userMessage(err))
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var login, password, dataDir string

	long := "accountsync reads account files from the data directory, cleans them\n" +
		"and runs one command against the result.\n\n" +
		"Recognized files: " + strings.Join(source.Extensions(), " ") + "\n\n" +
		"Commands:\n" + commandHelp()

	cmd := &cobra.Command{
		Use:   "accountsync <command> --login <email|phone> --password <password>",
		Short: "Import, clean and query user accounts",
		Long:  long,
		Args:  cobra.ExactArgs(1),

		SilenceErrors: true,
		SilenceUsage:  true,

		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("data") {
				cfg.Input.DataDir = dataDir
				cfg.Input.Files = nil
			}
			return app.New(cfg, cmd.OutOrStdout()).Run(cmd.Context(), args[0], login, password)
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "account email or telephone number")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&dataDir, "data", cfg.Input.DataDir, "directory searched for account files")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func commandHelp() string {
	var b strings.Builder
	for _, c := range app.Commands() {
		scope := "any user"
		if c.AdminOnly {
			scope = "admin"
		}
		fmt.Fprintf(&b, "  %-30s %s (%s)\n", c.Name, c.Description, scope)
	}
	return b.String()
}

// userMessage prefers the mapped message for known failures and falls back
// to the error text.
func userMessage(err error) string {
	if core.IsUserFacing(err) {
		return core.FormatUserError(err)
	}
	return err.Error()
}
