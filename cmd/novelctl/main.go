// Package main is novelctl, the administration tool for an iNovel data directory.
//
// Usage:
//
//	novelctl inspect                      # collection counts
//	novelctl inspect users --output yaml  # dump one collection
//	novelctl migrate --to sqlite --to-path /srv/inovel
//	novelctl reindex
//	novelctl hash-passwords
//
// Stop the server before running commands that write: the server keeps
// collections in memory only for the duration of a request, but Badger and
// the search index hold exclusive file locks.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
