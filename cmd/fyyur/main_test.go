package main

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/directory"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fyyur.env")
	require.NoError(t, os.WriteFile(path, []byte("FYYUR_TEST_LISTEN_ADDR=127.0.0.1:9999\n"), 0o600))
	t.Setenv("FYYUR_ENV_FILE", path)
	t.Cleanup(func() { os.Unsetenv("FYYUR_TEST_LISTEN_ADDR") })

	require.NoError(t, loadEnvFile())
	assert.Equal(t, "127.0.0.1:9999", os.Getenv("FYYUR_TEST_LISTEN_ADDR"))
}

func TestLoadEnvFileMissing(t *testing.T) {
	t.Setenv("FYYUR_ENV_FILE", filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, loadEnvFile())
}

func TestApplySeed(t *testing.T) {
	dbc, err := db.NewMock()
	require.NoError(t, err)
	require.NoError(t, dbc.Migrate(db.MigrationContext{}))
	t.Cleanup(func() { dbc.Close() })
	store := directory.New(dbc)

	require.NoError(t, applySeed(store, "", false))
	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Zero(t, counts.Venues)

	require.NoError(t, applySeed(store, "", true))
	counts, err = store.Counts()
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Venues)

	require.Error(t, applySeed(store, filepath.Join(t.TempDir(), "missing.yaml"), false))
}

func TestWithProxyPrefix(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
	})

	h := withProxyPrefix(inner, "/fyyur")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fyyur/venues/1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/venues/1", seen)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/venues/1", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/fyyur/", rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	withProxyPrefix(inner, "/").ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/venues/2", nil))
	assert.Equal(t, "/venues/2", seen)
}
