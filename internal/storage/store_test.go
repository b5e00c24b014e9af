package storage

import (
	"context"
	"ecotrack/internal/storage/interfaces"
	"ecotrack/internal/structures"
	"ecotrack/internal/testutil"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeBackends(t *testing.T) map[string]interfaces.KeyValueStore {
	t.Helper()
	dir := t.TempDir()

	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	fileStore, err := NewFileStore(filepath.Join(dir, "store.dat"), compressor, &testutil.MockLogger{})
	require.NoError(t, err)

	sqliteStore, err := OpenSQLiteStore(filepath.Join(dir, "store.db"))
	require.NoError(t, err)

	backends := map[string]interfaces.KeyValueStore{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range backends {
			_ = s.Close()
		}
	})
	return backends
}

func TestStores_GetReturnsOnlyPresentKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, map[string][]byte{"metrics": []byte(`{"streak":2}`)}))

			got, err := s.Get(ctx, "metrics", "dismissedTips")
			require.NoError(t, err)
			assert.Equal(t, map[string][]byte{"metrics": []byte(`{"streak":2}`)}, got)
		})
	}
}

func TestStores_SetOverwritesAndKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))
			require.NoError(t, s.Set(ctx, map[string][]byte{"a": []byte("3")}))

			got, err := s.Get(ctx, "a", "b")
			require.NoError(t, err)
			assert.Equal(t, []byte("3"), got["a"])
			assert.Equal(t, []byte("2"), got["b"])
		})
	}
}

func TestStores_GetNoKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Get(ctx)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	value := []byte("abc")
	require.NoError(t, s.Set(ctx, map[string][]byte{"k": value}))
	value[0] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got["k"])

	got["k"][0] = 'y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again["k"])
}

func TestUnavailableStore(t *testing.T) {
	s := UnavailableStore{}
	_, err := s.Get(context.Background(), "metrics")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, s.Set(context.Background(), map[string][]byte{"metrics": nil}), ErrStoreUnavailable)
	assert.NoError(t, s.Close())
}

func TestFileStore_ReopenRestoresData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.dat")
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)

	s, err := NewFileStore(path, compressor, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, map[string][]byte{"metrics": []byte(`{"streak":3}`)}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, isZstdFrame(raw))

	// reopen without compression: compressed snapshots stay readable
	reopened, err := NewFileStore(path, nil, &testutil.MockLogger{})
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "metrics")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"streak":3}`), got["metrics"])
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "absent.dat"), nil, &testutil.MockLogger{})
	require.NoError(t, err)
	got, err := s.Get(context.Background(), "metrics")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStore_ImportsPlainObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"metrics":{"streak":5},"dismissedTips":["tab-tip"]}`), 0644))

	logger := &testutil.MockLogger{}
	s, err := NewFileStore(path, nil, logger)
	require.NoError(t, err)

	got, err := s.Get(context.Background(), "metrics", "dismissedTips")
	require.NoError(t, err)
	assert.JSONEq(t, `{"streak":5}`, string(got["metrics"]))
	assert.JSONEq(t, `["tab-tip"]`, string(got["dismissedTips"]))
	assert.NotEmpty(t, logger.Logs)
}

func TestFileStore_CorruptedFileStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.dat")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0644))

	s, err := NewFileStore(path, nil, &testutil.MockLogger{})
	require.NoError(t, err)

	got, err := s.Get(ctx, "metrics")
	require.NoError(t, err)
	assert.Empty(t, got)

	kept, err := os.ReadFile(path + corruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, []byte("{truncated"), kept)

	require.NoError(t, s.Set(ctx, map[string][]byte{"metrics": []byte("{}")}))
	reopened, err := NewFileStore(path, nil, &testutil.MockLogger{})
	require.NoError(t, err)
	got, err = reopened.Get(ctx, "metrics")
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), got["metrics"])
}

func TestFileStore_CorruptedCompressedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.dat")
	// zstd magic followed by garbage
	require.NoError(t, os.WriteFile(path, []byte{0x28, 0xb5, 0x2f, 0xfd, 0x00, 0x01, 0x02}, 0644))

	s, err := NewFileStore(path, nil, &testutil.MockLogger{})
	require.NoError(t, err)

	got, err := s.Get(context.Background(), "metrics")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.FileExists(t, path+corruptSuffix)
}

func TestFileStore_FailedWriteKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.dat")
	compressor := &testutil.MockCompressor{}

	s, err := NewFileStore(path, compressor, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, map[string][]byte{"metrics": []byte("1")}))

	compressor.CompressFn = func([]byte) ([]byte, error) { return nil, errors.New("disk full") }
	assert.Error(t, s.Set(ctx, map[string][]byte{"metrics": []byte("2")}))

	got, err := s.Get(ctx, "metrics")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got["metrics"])
}

func TestNewStoreProvider_Drivers(t *testing.T) {
	dir := t.TempDir()
	logger := &testutil.MockLogger{}

	cases := map[string]structures.StoreConfig{
		"memory": {Driver: "memory"},
		"none":   {Driver: "none"},
		"file":   {Driver: "file", Path: filepath.Join(dir, "s.dat"), Compress: true},
		"sqlite": {Driver: "sqlite", Path: filepath.Join(dir, "s.db")},
	}
	for name, sc := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := NewStoreProvider(&structures.Config{Store: sc}, logger)
			require.NoError(t, err)
			assert.NoError(t, s.Close())
		})
	}

	_, err := NewStoreProvider(&structures.Config{Store: structures.StoreConfig{Driver: "etcd"}}, logger)
	assert.Error(t, err)
}

func TestNewStoreProvider_CorruptFileDoesNotAbortStartup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.dat")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0644))

	s, err := NewStoreProvider(&structures.Config{Store: structures.StoreConfig{Driver: "file", Path: path}}, &testutil.MockLogger{})
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Set(context.Background(), map[string][]byte{"metrics": []byte("{}")}))
}
