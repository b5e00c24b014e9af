package storage

import (
	"context"
	"ecotrack/internal/providers"
	"ecotrack/internal/storage/interfaces"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

const (
	fileFormatVersion = 1
	corruptSuffix     = ".corrupt"
)

// fileSnapshot is the on-disk envelope. Values are opaque bytes.
type fileSnapshot struct {
	Version int               `json:"version"`
	Items   map[string][]byte `json:"items"`
}

// FileStore keeps the whole keyspace in memory and rewrites the snapshot
// file on every Set.
type FileStore struct {
	mu         sync.RWMutex
	path       string
	data       map[string][]byte
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

// NewFileStore loads path if it exists. A nil compressor writes plain JSON;
// both forms are readable regardless of the setting. An unreadable snapshot
// is moved aside to path+".corrupt" and the store starts empty.
func NewFileStore(path string, compressor interfaces.CompressorInterface, logger providers.Logger) (*FileStore, error) {
	fs := &FileStore{
		path:       path,
		data:       make(map[string][]byte),
		compressor: compressor,
		logger:     logger,
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
	}
	if err := fs.load(); err != nil {
		fs.logger.Errorf(providers.TypeApp, "Store file %s is unreadable, starting empty: %s", path, err)
		fs.data = make(map[string][]byte)
		if err := os.Rename(path, path+corruptSuffix); err != nil {
			fs.logger.Errorf(providers.TypeApp, "Moving %s aside failed: %s", path, err)
		}
	}
	return fs, nil
}

func (f *FileStore) Get(_ context.Context, keys ...string) (map[string][]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := f.data[k]; ok {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

// Set applies items only if the snapshot reached the disk.
func (f *FileStore) Set(_ context.Context, items map[string][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string][]byte, len(f.data)+len(items))
	for k, v := range f.data {
		next[k] = v
	}
	for k, v := range items {
		next[k] = append([]byte(nil), v...)
	}

	if err := f.save(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *FileStore) Close() error {
	if f.compressor != nil {
		f.compressor.Close()
	}
	return nil
}

func (f *FileStore) save(items map[string][]byte) error {
	data, err := json.Marshal(fileSnapshot{Version: fileFormatVersion, Items: items})
	if err != nil {
		return err
	}
	if f.compressor != nil {
		data, err = f.compressor.Compress(data)
		if err != nil {
			return err
		}
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

func (f *FileStore) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}

	if isZstdFrame(data) {
		if f.compressor == nil {
			if f.compressor, err = NewZstdCompressor(); err != nil {
				return err
			}
			defer func() {
				f.compressor.Close()
				f.compressor = nil
			}()
		}
		data, err = f.compressor.Decompress(data)
		if err != nil {
			return fmt.Errorf("decompress %s: %w", f.path, err)
		}
	}

	var snapshot fileSnapshot
	if err := json.Unmarshal(data, &snapshot); err == nil && snapshot.Version > 0 && snapshot.Items != nil {
		f.data = snapshot.Items
		return nil
	}

	// A plain key -> JSON value object, as exported from browser storage.
	f.logger.Warnf(providers.TypeApp, "Unversioned store file %s, importing as plain key-value object", f.path)
	var plain map[string]json.RawMessage
	if err := json.Unmarshal(data, &plain); err != nil {
		f.logger.Warnf(providers.TypeApp, "Import of %s failed", f.path)
		return err
	}
	for k, v := range plain {
		f.data[k] = []byte(v)
	}
	f.logger.Warnf(providers.TypeApp, "Imported %d keys from %s", len(plain), f.path)
	return nil
}
