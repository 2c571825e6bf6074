package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
)

// FileStore keeps every document in memory and rewrites a zstd-compressed
// JSON snapshot on each mutation.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	data    map[string]string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// OpenFileStore loads path if it exists. A snapshot that cannot be decoded
// is an error; a missing one starts empty.
func OpenFileStore(path string) (*FileStore, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	fs := &FileStore{
		path:    path,
		data:    make(map[string]string),
		encoder: encoder,
		decoder: decoder,
	}
	if err := fs.load(); err != nil {
		fs.Close()
		return nil, err
	}
	return fs, nil
}

func (f *FileStore) load() error {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	plain, err := f.decoder.DecodeAll(raw, nil)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", f.path, err)
	}
	if err := json.Unmarshal(plain, &f.data); err != nil {
		return fmt.Errorf("decode %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	f.data[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *FileStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	if !had {
		return nil
	}
	delete(f.data, key)
	if err := f.flush(); err != nil {
		f.data[key] = prev
		return err
	}
	return nil
}

// flush writes the snapshot to a temp file and renames it over the old one.
// Caller holds f.mu.
func (f *FileStore) flush() error {
	plain, err := json.Marshal(f.data)
	if err != nil {
		return err
	}
	compressed := f.encoder.EncodeAll(plain, make([]byte, 0, len(plain)/2))

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err = file.Write(compressed); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Close() error {
	f.decoder.Close()
	return f.encoder.Close()
}
