package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MrJamesThe3rd/previsao/internal/ledger"
)

// File keeps the settings document as JSON on disk.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

// Load returns empty settings when the file does not exist yet.
func (f *File) Load(_ context.Context) (*ledger.Settings, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ledger.Settings{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	return Decode(raw)
}

// Save replaces the file atomically through a temp file in the same directory.
func (f *File) Save(_ context.Context, settings *ledger.Settings) error {
	raw, err := Encode(settings)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing settings file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing settings file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing settings file: %w", err)
	}

	return nil
}
