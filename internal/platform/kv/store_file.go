// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// FileStore keeps one file per key inside a directory.
//
// Writes go to a temporary file that is renamed over the target, so a power
// loss mid-write leaves either the old or the new record, never a torn one.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a [FileStore] rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("kv: create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	value, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv: read %q: %w", key, err)
	}
	return value, true, nil
}

func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	temp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("kv: create temp file: %w", err)
	}
	tempName := temp.Name()

	if _, err := temp.Write(value); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempName)
		return fmt.Errorf("kv: write %q: %w", key, err)
	}
	if err := temp.Sync(); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempName)
		return fmt.Errorf("kv: sync %q: %w", key, err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("kv: close %q: %w", key, err)
	}

	if err := os.Rename(tempName, s.path(key)); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("kv: replace %q: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("kv: delete %q: %w", key, err)
	}
	return nil
}

// path escapes key so separators like ":" and "/" stay inside the directory.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}
