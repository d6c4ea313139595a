package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/inovelapp/inovel-server/internal/domain"
)

// Index wraps a Bleve index of novels.
//
// All public methods are safe for concurrent use. The mutex is held
// exclusively only while the index is being rebuilt.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory holding search.bleve
	Logger   *slog.Logger // Uses a discard logger if nil
}

// IndexDirName is the index directory inside the data path.
const IndexDirName = "search.bleve"

// mappingVersion is incremented whenever the index mapping changes, which
// triggers a rebuild on the next open.
const mappingVersion = "1"

// Open creates or opens the search index under opts.DataPath.
// A corrupt index or one built with an older mapping is removed and recreated
// empty; callers are expected to reindex when DocumentCount is zero.
func Open(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	indexPath := filepath.Join(opts.DataPath, IndexDirName)
	versionPath := filepath.Join(opts.DataPath, "search.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath) //#nosec G304 -- path under the data directory
		if readErr != nil {
			logger.Info("search index has no version file, will rebuild",
				"new_version", mappingVersion,
			)
			needsRebuild = true
		} else if string(existingVersion) != mappingVersion {
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &Index{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// Path returns the index directory.
func (s *Index) Path() string {
	return s.path
}

// IndexNovels adds or replaces the given novels in batches.
func (s *Index) IndexNovels(novels []domain.Novel) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexNovels(novels)
}

func (s *Index) indexNovels(novels []domain.Novel) error {
	const batchSize = 500

	for i := 0; i < len(novels); i += batchSize {
		end := min(i+batchSize, len(novels))

		batch := s.index.NewBatch()
		for j := i; j < end; j++ {
			doc := NovelToDocument(&novels[j])
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// DeleteNovel removes a novel from the index.
func (s *Index) DeleteNovel(novelID int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(DocID(novelID))
}

// DocumentCount returns the number of indexed novels.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Replace drops the index and indexes novels into a fresh one. Searches
// block until it finishes, so they never see a half-built index.
func (s *Index) Replace(novels []domain.Novel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rebuild(); err != nil {
		return err
	}
	if err := s.indexNovels(novels); err != nil {
		return err
	}

	s.logger.Info("search index replaced", "novels", len(novels))
	return nil
}

// Rebuild drops the existing index and creates an empty one.
func (s *Index) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuild()
}

func (s *Index) rebuild() error {
	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}

	index, err := bleve.New(s.path, buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt search index", "path", s.path)

	return nil
}
