// Package filestore keeps JSON documents on the local filesystem: the
// question mirror and file-backed report and user repositories.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// dir is a directory of JSON files written atomically.
type dir struct {
	basePath string
}

func newDir(basePath string) (dir, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return dir{}, fmt.Errorf("failed to create directory %s: %w", basePath, err)
	}
	return dir{basePath: basePath}, nil
}

func (d dir) path(name string) string {
	return filepath.Join(d.basePath, name)
}

// writeJSON replaces name through a temp file and rename so readers never see
// a partial document.
func (d dir) writeJSON(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(d.basePath, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), d.path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// readJSON decodes name into v. A missing file returns os.ErrNotExist.
func (d dir) readJSON(name string, v any) error {
	raw, err := os.ReadFile(d.path(name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// remove deletes name; a missing file is not an error.
func (d dir) remove(name string) error {
	if err := os.Remove(d.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

// safeName rejects ids that would escape the directory.
func safeName(id string) bool {
	return strings.TrimSpace(id) != "" && !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}
