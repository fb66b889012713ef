package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileSystem stores objects as files under Folder.
type LocalFileSystem struct {
	Folder string
}

// NewFileSystem creates a new local file system storage, creating the base
// folder if needed.
func NewFileSystem(folder string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage folder: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage folder: %w", err)
	}
	return &LocalFileSystem{Folder: abs}, nil
}

// fullPath maps key into Folder, rejecting keys that escape it.
func (l *LocalFileSystem) fullPath(key string) (string, error) {
	if key == "" {
		return "", errors.New("key cannot be empty")
	}
	fp := filepath.Join(l.Folder, filepath.FromSlash(key))
	if fp != l.Folder && !strings.HasPrefix(fp, l.Folder+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes storage folder", key)
	}
	return fp, nil
}

// Put writes through a temp file and renames it into place.
func (l *LocalFileSystem) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	fp, err := l.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return fmt.Errorf("failed to create directories for file path: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fp), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to copy data to file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fp); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

func (l *LocalFileSystem) Get(_ context.Context, key string) (io.ReadCloser, error) {
	fp, err := l.fullPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fp)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return f, err
}

func (l *LocalFileSystem) Delete(_ context.Context, key string) error {
	fp, err := l.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (l *LocalFileSystem) Exists(_ context.Context, key string) (bool, error) {
	fp, err := l.fullPath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fp)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (l *LocalFileSystem) Endpoint() string { return "file://" + filepath.ToSlash(l.Folder) }

type filesystemDriver struct{}

func (d *filesystemDriver) Name() string { return "filesystem" }

func (d *filesystemDriver) Connect(_ context.Context, cfg *Config) (Interface, error) {
	return NewFileSystem(cfg.Bucket)
}

func init() {
	RegisterDriver(&filesystemDriver{})
}
