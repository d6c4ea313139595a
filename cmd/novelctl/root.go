package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/inovelapp/inovel-server/internal/config"
	"github.com/inovelapp/inovel-server/internal/logger"
	"github.com/inovelapp/inovel-server/internal/store"
	"github.com/inovelapp/inovel-server/internal/store/backend"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	dataPath string
	storage  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "novelctl",
		Short: "Administer an iNovel data directory",
		Long: `novelctl inspects and maintains the novels, users and comments
collections of an iNovel server.

Flags fall back to the server's environment variables:
  DATA_PATH        data directory (default ~/iNovel/data)
  STORAGE_BACKEND  jsonfile, badger or sqlite (default jsonfile)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dataPath, "data-path", "", "Data directory (or set DATA_PATH)")
	rootCmd.PersistentFlags().StringVar(&opts.storage, "storage", "", "Storage backend (or set STORAGE_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInspectCmd(opts),
		newHistoryCmd(opts),
		newMigrateCmd(opts),
		newReindexCmd(opts),
		newHashPasswordsCmd(opts),
	)

	return rootCmd
}

// resolve fills unset flags from the environment and the server defaults.
func (o *globalOptions) resolve() (*config.Config, error) {
	var args []string
	if o.dataPath != "" {
		args = append(args, "-data-path", o.dataPath)
	}
	if o.storage != "" {
		args = append(args, "-storage", o.storage)
	}
	if o.logLevel != "" {
		args = append(args, "-log-level", o.logLevel)
	}
	return config.Load(args)
}

func (o *globalOptions) logger(w io.Writer) *logger.Logger {
	return logger.New(logger.Config{
		Writer: w,
		Format: logger.FormatConsole,
		Level:  logger.ParseLevel(o.logLevel),
	})
}

// openStore opens the configured store. The caller closes it.
func (o *globalOptions) openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := o.resolve()
	if err != nil {
		return nil, nil, err
	}

	log := o.logger(cmd.ErrOrStderr())
	b, err := backend.Open(cfg.Storage.Backend, cfg.Storage.DataPath, log.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store at %s: %w", cfg.Storage.Backend, cfg.Storage.DataPath, err)
	}
	return store.New(b, log.Logger), cfg, nil
}
