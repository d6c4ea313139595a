package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inovelapp/inovel-server/internal/search"
	"github.com/inovelapp/inovel-server/internal/service"
)

func newReindexCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the full-text search index from the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, cfg, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			log := opts.logger(cmd.ErrOrStderr())
			index, err := search.Open(search.Options{DataPath: cfg.Storage.DataPath, Logger: log.Logger})
			if err != nil {
				return err
			}
			defer index.Close()

			count, err := service.NewSearchService(index, st, log.Logger).ReindexAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d novels into %s\n", count, index.Path())
			return nil
		},
	}
}

func newHashPasswordsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-passwords",
		Short: "Replace plaintext passwords from old user files with argon2id hashes",
		Long: `Older users.json files store passwords in plain text. The server
upgrades them one by one as readers log in; hash-passwords converts all of
them at once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, _, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			log := opts.logger(cmd.ErrOrStderr())
			converted, err := service.NewAuthService(st, nil, log.Logger).HashLegacyPasswords(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Hashed %d passwords\n", converted)
			return nil
		},
	}
}
