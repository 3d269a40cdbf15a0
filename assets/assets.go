// Package assets manages the per-package asset directories of the Souk
// marketplace. Each catalog record owns exactly one directory under the store
// root, named after the package, holding the media and payload files the
// record references.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tfkr-ae/souk/domain"
)

// Store manages package asset directories rooted at a single base directory.
// Directory existence doubles as the authorization gate for uploads: a write
// into a directory that does not exist fails, it is never created implicitly.
type Store struct {
	root string // Absolute base directory holding one subdirectory per package.
}

// NewStore initializes a Store at the given root directory, creating the root
// if it does not exist.
func NewStore(root string) (*Store, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving asset root %s : %w", root, err)
	}

	if err := os.MkdirAll(absRoot, 0o700); err != nil {
		return nil, fmt.Errorf("creating asset root %s : %w", absRoot, err)
	}

	return &Store{root: absRoot}, nil
}

// Root returns the absolute base directory of the store.
func (s *Store) Root() string {
	return s.root
}

// validName rejects identifiers and filenames that would escape the store root.
func validName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name: %w", domain.ErrInvalidPackage)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("name %q contains path separators: %w", name, domain.ErrInvalidPackage)
	}
	return nil
}

// Exists reports whether the asset directory for the given package exists.
func (s *Store) Exists(name string) bool {
	if validName(name) != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(s.root, name))
	return err == nil && info.IsDir()
}

// Create makes the asset directory for the given package.
// It returns domain.ErrConflict if the directory already exists.
func (s *Store) Create(name string) error {
	if err := validName(name); err != nil {
		return err
	}

	err := os.Mkdir(filepath.Join(s.root, name), 0o700)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("creating asset directory %s : %w", name, domain.ErrConflict)
		}
		return fmt.Errorf("creating asset directory %s : %w", name, err)
	}
	return nil
}

// Remove deletes the asset directory and its contents. It exists as the
// compensating action for a failed package creation.
func (s *Store) Remove(name string) error {
	if err := validName(name); err != nil {
		return err
	}

	if !s.Exists(name) {
		return fmt.Errorf("removing asset directory %s : %w", name, domain.ErrNotFound)
	}

	if err := os.RemoveAll(filepath.Join(s.root, name)); err != nil {
		return fmt.Errorf("removing asset directory %s : %w", name, err)
	}
	return nil
}

// WriteFile streams the reader into `<root>/<name>/<filename>`, truncating any
// existing file (last write wins, no versioning). It fails with
// domain.ErrNotFound when the package directory does not exist, and returns
// the number of bytes written together with the detected content type.
func (s *Store) WriteFile(name string, filename string, r io.Reader) (int64, string, error) {
	if err := validName(name); err != nil {
		return 0, "", err
	}
	if err := validName(filename); err != nil {
		return 0, "", err
	}

	if !s.Exists(name) {
		return 0, "", fmt.Errorf("writing %s for package %s : %w", filename, name, domain.ErrNotFound)
	}

	target := filepath.Join(s.root, name, filename)
	f, err := os.Create(target)
	if err != nil {
		return 0, "", fmt.Errorf("opening %s for writing : %w", target, err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		return written, "", fmt.Errorf("streaming to %s : %w", target, err)
	}
	if err := f.Close(); err != nil {
		return written, "", fmt.Errorf("closing %s : %w", target, err)
	}

	mtype, err := mimetype.DetectFile(target)
	if err != nil {
		return written, "", fmt.Errorf("detecting content type of %s : %w", target, err)
	}

	return written, mtype.String(), nil
}

// Path returns the filesystem path of a file inside a package's asset
// directory. It does not check for existence.
func (s *Store) Path(name string, filename string) string {
	return filepath.Join(s.root, name, filename)
}
