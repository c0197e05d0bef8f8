package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/pretty"
)

const documentFileMode = 0o644

// documentFile reads and writes the whole document. Writes go to a temporary
// sibling that is renamed over the target, so readers see either the old or
// the new document.
type documentFile struct {
	path string
}

func (f documentFile) load() (document, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc := emptyDocument()
		if err := f.save(doc); err != nil {
			return document{}, err
		}
		return doc, nil
	}
	if err != nil {
		return document{}, fmt.Errorf("read document: %w", err)
	}

	doc, err := parseDocument(data)
	if err != nil {
		return document{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func (f documentFile) save(doc document) error {
	data := pretty.Pretty(doc.raw)

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Chmod(tmpPath, documentFileMode); err != nil {
		return fmt.Errorf("chmod temp document: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	committed = true
	return nil
}
