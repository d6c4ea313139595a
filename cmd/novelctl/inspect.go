package main

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inovelapp/inovel-server/internal/store"
	"github.com/inovelapp/inovel-server/internal/store/sqlite"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func newInspectCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "inspect [novels|users|comments]",
		Short: "Show collection counts or dump one collection",
		Long: `Without an argument, inspect prints the number of records in each
collection. With a collection name it prints the stored records.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains([]string{outputJSON, outputYAML}, output) {
				return fmt.Errorf("unknown output format %q (must be json or yaml)", output)
			}

			st, cfg, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 0 {
				counts, err := st.Counts(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Store: %s (%s)\n", cfg.Storage.Backend, cfg.Storage.DataPath)
				for _, kind := range store.Kinds {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-9s %d\n", kind, counts[kind])
				}
				return nil
			}

			kind, ok := store.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown collection %q (must be one of %s)", args[0], strings.Join(kindNames(), ", "))
			}

			data, err := st.Backend().Read(cmd.Context(), kind)
			if errors.Is(err, store.ErrDocumentNotFound) {
				return fmt.Errorf("%s has never been written", kind)
			}
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), data, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format (json or yaml)")
	return cmd
}

// writeDocument re-encodes a stored document. JSON keeps the stored field
// order; YAML output has its keys sorted.
func writeDocument(w io.Writer, data []byte, format string) error {
	if format == outputYAML {
		var records []map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("document is malformed: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}

	var records []jsontext.Value
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("document is malformed: %w", err)
	}
	out, err := store.Encode(records)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <novels|users|comments>",
		Short: "List recent writes of a collection (sqlite backend only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := store.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown collection %q", args[0])
			}

			st, _, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			db, ok := st.Backend().(*sqlite.Backend)
			if !ok {
				return fmt.Errorf("history is only recorded by the sqlite backend, not %s", st.Backend().Name())
			}

			writes, err := db.History(cmd.Context(), kind, limit)
			if err != nil {
				return err
			}
			for _, w := range writes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s %d bytes\n", w.WrittenAt.Format("2006-01-02 15:04:05"), w.Kind, w.Size)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of writes to list")
	return cmd
}

func kindNames() []string {
	names := make([]string, 0, len(store.Kinds))
	for _, k := range store.Kinds {
		names = append(names, string(k))
	}
	return names
}
