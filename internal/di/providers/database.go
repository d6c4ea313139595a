package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/inovelapp/inovel-server/internal/config"
	"github.com/inovelapp/inovel-server/internal/logger"
	"github.com/inovelapp/inovel-server/internal/store"
	"github.com/inovelapp/inovel-server/internal/store/backend"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured backend and prepares the collections.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	b, err := backend.Open(cfg.Storage.Backend, cfg.Storage.DataPath, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}

	st := store.New(b, log.Logger)
	if err := st.Bootstrap(context.Background()); err != nil {
		_ = st.Close()
		return nil, err
	}

	counts, err := st.Counts(context.Background())
	if err != nil {
		log.Warn("Could not count collections", "error", err)
	}

	log.Info("Store initialized",
		"backend", b.Name(),
		"path", cfg.Storage.DataPath,
		"novels", counts[store.KindNovels],
		"users", counts[store.KindUsers],
		"comments", counts[store.KindComments],
	)

	return &StoreHandle{Store: st}, nil
}
