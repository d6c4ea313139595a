package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovelapp/inovel-server/internal/auth"
	"github.com/inovelapp/inovel-server/internal/config"
	"github.com/inovelapp/inovel-server/internal/logger"
	"github.com/inovelapp/inovel-server/internal/service"
	"github.com/inovelapp/inovel-server/internal/store"
)

func newInjector(t *testing.T, cfg *config.Config) *do.RootScope {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger.Discard())
	do.Provide(injector, ProvideAuthKey)
	do.Provide(injector, ProvideTokenService)
	do.Provide(injector, ProvideStore)
	do.Provide(injector, ProvideSearchIndex)
	do.Provide(injector, ProvideSearchService)
	do.Provide(injector, ProvideSessionService)
	do.Provide(injector, ProvideDataWatcher)

	t.Cleanup(func() { _ = injector.Shutdown() })
	return injector
}

func testConfig(t *testing.T, backend string) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Backend: backend, DataPath: t.TempDir()},
		Auth:    config.AuthConfig{SessionDuration: time.Hour},
	}
}

func TestProvideStore_BootstrapsEmptyCollections(t *testing.T) {
	cfg := testConfig(t, config.BackendJSONFile)
	injector := newInjector(t, cfg)

	storeHandle, err := do.Invoke[*StoreHandle](injector)
	require.NoError(t, err)

	counts, err := storeHandle.Counts(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 0, counts[store.KindUsers])
	assert.Equal(t, 0, counts[store.KindComments])

	assert.FileExists(t, filepath.Join(cfg.Storage.DataPath, "users.json"))
	assert.FileExists(t, filepath.Join(cfg.Storage.DataPath, "comments.json"))
	assert.NoFileExists(t, filepath.Join(cfg.Storage.DataPath, "novels.json"))
}

func TestProvideStore_UnknownBackend(t *testing.T) {
	injector := newInjector(t, testConfig(t, "postgres"))

	_, err := do.Invoke[*StoreHandle](injector)
	assert.Error(t, err)
}

func TestProvideAuthKey_PersistsKey(t *testing.T) {
	cfg := testConfig(t, config.BackendJSONFile)
	injector := newInjector(t, cfg)

	key, err := do.Invoke[AuthKey](injector)
	require.NoError(t, err)
	assert.Len(t, key, 32)
	assert.Equal(t, []byte(key), cfg.Auth.SessionKey)
	assert.FileExists(t, filepath.Join(cfg.Storage.DataPath, auth.KeyFileName))

	again, err := auth.LoadOrGenerateKey(cfg.Storage.DataPath)
	require.NoError(t, err)
	assert.Equal(t, []byte(key), again)

	_, err = do.Invoke[*auth.TokenService](injector)
	assert.NoError(t, err)
}

func TestProvideSearch_Disabled(t *testing.T) {
	injector := newInjector(t, testConfig(t, config.BackendJSONFile))

	handle, err := do.Invoke[*SearchIndexHandle](injector)
	require.NoError(t, err)
	assert.Nil(t, handle.Index)

	svc, err := do.Invoke[*service.SearchService](injector)
	require.NoError(t, err)
	assert.Nil(t, svc)

	watcherHandle, err := do.Invoke[*DataWatcherHandle](injector)
	require.NoError(t, err)
	assert.Nil(t, watcherHandle.Watcher)
}

func TestProvideDataWatcher_SkipsNonFileBackends(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)
	cfg.Search.Enabled = true
	cfg.Storage.WatchData = true
	injector := newInjector(t, cfg)

	handle, err := do.Invoke[*DataWatcherHandle](injector)
	require.NoError(t, err)
	assert.Nil(t, handle.Watcher)
}

func TestProvideDataWatcher_ReindexesOnChange(t *testing.T) {
	cfg := testConfig(t, config.BackendJSONFile)
	cfg.Search.Enabled = true
	cfg.Storage.WatchData = true
	injector := newInjector(t, cfg)

	handle, err := do.Invoke[*DataWatcherHandle](injector)
	require.NoError(t, err)
	require.NotNil(t, handle.Watcher)

	svc := do.MustInvoke[*service.SearchService](injector)
	require.NotNil(t, svc)

	novels := `[{"id":1,"title":"Sky","author":"A","genre":"玄幻","status":"completed","views":0,"favorites":0,"votes":0,"updateTime":"","intro":"","chapters":[]},
{"id":2,"title":"Sea","author":"B","genre":"玄幻","status":"ongoing","views":0,"favorites":0,"votes":0,"updateTime":"","intro":"","chapters":[]}]`
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Storage.DataPath, "novels.json"), []byte(novels), 0o644))

	assert.Eventually(t, func() bool {
		count, err := svc.DocumentCount()
		return err == nil && count == 2
	}, 5*time.Second, 50*time.Millisecond)
}
