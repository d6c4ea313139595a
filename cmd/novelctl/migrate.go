package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/inovelapp/inovel-server/internal/store"
	"github.com/inovelapp/inovel-server/internal/store/backend"
	"github.com/inovelapp/inovel-server/internal/store/jsonfile"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	var (
		to     string
		toPath string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy every collection into another backend",
		Long: `migrate copies the novels, users and comments documents from the
configured store into another backend. Documents already present in the
target are first saved as JSON under <to-path>/backups/<id>/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, cfg, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer src.Close()

			if toPath == "" {
				toPath = cfg.Storage.DataPath
			}
			if to == cfg.Storage.Backend && filepath.Clean(toPath) == filepath.Clean(cfg.Storage.DataPath) {
				return errors.New("source and target are the same store")
			}

			log := opts.logger(cmd.ErrOrStderr())
			dst, err := backend.Open(to, toPath, log.Logger)
			if err != nil {
				return fmt.Errorf("open target: %w", err)
			}
			defer dst.Close()

			backupDir, saved, err := backupExisting(cmd, dst, toPath)
			if err != nil {
				return err
			}
			if saved > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d existing documents to %s\n", saved, backupDir)
			}

			copied, err := store.Copy(cmd.Context(), src.Backend(), dst)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %d documents from %s to %s (%s)\n", copied, cfg.Storage.Backend, to, toPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Target backend (jsonfile, badger or sqlite)")
	cmd.Flags().StringVar(&toPath, "to-path", "", "Target data directory (default: the source data directory)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// backupExisting copies whatever dst already holds into a fresh JSON
// directory. Nothing is created when dst is empty.
func backupExisting(cmd *cobra.Command, dst store.Backend, root string) (string, int, error) {
	hasData := false
	for _, kind := range store.Kinds {
		_, err := dst.Read(cmd.Context(), kind)
		if err == nil {
			hasData = true
			break
		}
		if !errors.Is(err, store.ErrDocumentNotFound) {
			return "", 0, fmt.Errorf("read target %s: %w", kind, err)
		}
	}
	if !hasData {
		return "", 0, nil
	}

	dir := filepath.Join(root, "backups", uuid.NewString())
	backup, err := jsonfile.Open(dir, nil)
	if err != nil {
		return "", 0, fmt.Errorf("create backup: %w", err)
	}
	defer backup.Close()

	saved, err := store.Copy(cmd.Context(), dst, backup)
	if err != nil {
		return "", 0, fmt.Errorf("back up target: %w", err)
	}
	return dir, saved, nil
}
