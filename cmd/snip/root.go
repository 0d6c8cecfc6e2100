package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"snip/internal/config"
)

// cliOptions holds the persistent flags shared by every command.
type cliOptions struct {
	jsonOutput bool
	dbPath     string
	logLevel   string

	// logger is built from the selected level before any command runs.
	logger *slog.Logger
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:           "snip",
		Short:         "Snip keeps named text snippets and their file attachments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, warning, err := configureLoggerForCLI(opts.logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			opts.logger = logger
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (default $SNIP_DB or ~/.snip.sqlite3)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newListCmd(cfg, opts),
		newGetCmd(cfg, opts),
		newShowCmd(cfg, opts),
		newAddCmd(cfg, opts),
		newUpdateCmd(cfg, opts),
		newRemoveCmd(cfg, opts),
		newSearchCmd(cfg, opts),
		newSplitCmd(opts),
		newStemCmd(opts),
		newAttachCmd(cfg, opts),
		newConfigCmd(cfg),
		newMigrateCmd(cfg, opts),
	)

	return cmd
}
