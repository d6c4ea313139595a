package providers

import (
	"context"
	"path/filepath"
	"time"

	"github.com/samber/do/v2"

	"github.com/inovelapp/inovel-server/internal/config"
	"github.com/inovelapp/inovel-server/internal/logger"
	"github.com/inovelapp/inovel-server/internal/service"
	"github.com/inovelapp/inovel-server/internal/store"
	"github.com/inovelapp/inovel-server/internal/store/jsonfile"
	"github.com/inovelapp/inovel-server/internal/watcher"
)

// DataWatcherHandle wraps the data directory watcher with shutdown capability.
// Watcher is nil when watching is off.
type DataWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *DataWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideDataWatcher watches the novels document and reindexes search when it
// changes on disk. Only the jsonfile backend has a file to watch.
func ProvideDataWatcher(i do.Injector) (*DataWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)

	files, ok := storeHandle.Backend().(*jsonfile.Backend)
	switch {
	case !cfg.Storage.WatchData:
		return &DataWatcherHandle{}, nil
	case !ok:
		log.Info("Data watching needs the jsonfile backend; skipping", "backend", storeHandle.Backend().Name())
		return &DataWatcherHandle{}, nil
	case searchService == nil:
		log.Info("Data watching has nothing to refresh with search disabled")
		return &DataWatcherHandle{}, nil
	}

	novelsFile := filepath.Base(files.Path(store.KindNovels))

	w, err := watcher.New(log.Logger, watcher.Options{
		Files:        []string{novelsFile},
		IgnoreHidden: true,
	})
	if err != nil {
		return nil, err
	}
	if err := w.Watch(files.Dir()); err != nil {
		_ = w.Stop()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Data watcher error", "error", err)
		}
	}()

	go func() {
		events, errs := w.Events(), w.Errors()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if event.Type != watcher.EventChanged {
					log.Warn("novels document removed; keeping the current search index", "path", event.Path)
					continue
				}
				count, err := searchService.ReindexAll(ctx)
				if err != nil {
					log.Warn("reindex after data change failed", "error", err, "path", event.Path)
					continue
				}
				log.Debug("search reindexed after data change", "novels", count)
			case err, ok := <-errs:
				if !ok {
					return
				}
				log.Warn("data watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Watching data directory", "path", files.Dir(), "file", novelsFile)

	return &DataWatcherHandle{Watcher: w, cancel: cancel}, nil
}

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if count := sessionService.CleanupExpired(); count > 0 {
					log.Info("Session cleanup completed", "deleted", count, "active", sessionService.ActiveSessions())
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started", "interval", sessionCleanupInterval)

	return &SessionCleanupJob{cancel: cancel}, nil
}
