package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanchey92/pizzeria/internal/config"
	"github.com/sanchey92/pizzeria/internal/storage"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	return &config.Config{
		App:  config.App{Name: "pizzeria-test", LogLevel: "error"},
		HTTP: config.HTTP{Port: 0, ShutdownTimeout: time.Second},
		Storage: config.Storage{
			Driver:       driver,
			SQLitePath:   filepath.Join(t.TempDir(), "db", "pizzeria.db"),
			PollInterval: 10 * time.Millisecond,
		},
		Notify: config.Notify{MessagingDomain: "wa.me", CountryCode: "55"},
		Store:  config.Store{Name: "Pizzaria", Phone: "1140028922", DeliveryFee: "5.00", IsOpen: true},
	}
}

func TestNew_ServesSeededCatalog(t *testing.T) {
	for _, driver := range []string{config.DriverMemory, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			a, err := New(testConfig(t, driver))
			require.NoError(t, err)
			t.Cleanup(a.close)
			require.NoError(t, a.catalog.Seed(context.Background()))

			rec := httptest.NewRecorder()
			a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "Margherita")

			_, isWatcher := a.backend.(storage.Watcher)
			assert.Equal(t, driver == config.DriverSQLite, isWatcher)
		})
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	cfg := testConfig(t, "redis")
	_, err := openBackend(context.Background(), newLogger("error", "test"), cfg)
	assert.Error(t, err)
}
