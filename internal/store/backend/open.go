// Package backend opens the store.Backend named in configuration.
package backend

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/inovelapp/inovel-server/internal/store"
	"github.com/inovelapp/inovel-server/internal/store/badgerstore"
	"github.com/inovelapp/inovel-server/internal/store/jsonfile"
	"github.com/inovelapp/inovel-server/internal/store/sqlite"
)

// Names lists the supported backends.
var Names = []string{jsonfile.Name, badgerstore.Name, sqlite.Name}

// Open opens backend name rooted at dataPath. JSON files live directly in
// dataPath; Badger uses dataPath/badger and SQLite dataPath/inovel.db.
func Open(name, dataPath string, logger *slog.Logger) (store.Backend, error) {
	switch name {
	case jsonfile.Name:
		return jsonfile.Open(dataPath, logger)
	case badgerstore.Name:
		return badgerstore.Open(filepath.Join(dataPath, "badger"), logger)
	case sqlite.Name:
		if err := os.MkdirAll(dataPath, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		return sqlite.Open(filepath.Join(dataPath, "inovel.db"), logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", name)
	}
}
