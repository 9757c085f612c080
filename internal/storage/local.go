// Package storage keeps uploaded files on local disk under generated names.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Logical folders, relative to the store root
const (
	FolderCVs               = "uploads/cvs"
	FolderLogos             = "images/logos"
	FolderRegistrationLogos = "uploads"
)

// LogoMaxDimension bounds both sides of a stored logo
const LogoMaxDimension = 512

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidName  = errors.New("invalid file name")
)

type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

// Save copies r to a new file named <uuid><ext> in folder and returns that
// name. ext comes from originalName.
func (s *LocalStore) Save(folder, originalName string, r io.Reader) (string, error) {
	dir, err := s.ensureFolder(folder)
	if err != nil {
		return "", err
	}

	name := generateName(originalName)
	full := filepath.Join(dir, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return name, nil
}

// SaveImage decodes an image, shrinks it to fit maxDim×maxDim and writes it
// in the format implied by the original extension.
func (s *LocalStore) SaveImage(folder, originalName string, r io.Reader, maxDim int) (string, error) {
	if _, err := imaging.FormatFromFilename(originalName); err != nil {
		return "", fmt.Errorf("%w: unsupported image type", ErrInvalidName)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if maxDim > 0 {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	dir, err := s.ensureFolder(folder)
	if err != nil {
		return "", err
	}

	name := generateName(originalName)
	full := filepath.Join(dir, name)
	if err := imaging.Save(img, full); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return name, nil
}

// Open returns the stored file and its size. The caller closes it.
func (s *LocalStore) Open(folder, name string) (io.ReadCloser, int64, error) {
	if !validName(name) {
		return nil, 0, ErrInvalidName
	}

	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(folder), name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, ErrFileNotFound
		}
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, ErrFileNotFound
	}

	return f, info.Size(), nil
}

// PublicPath is the URL path a stored file is served under
func PublicPath(folder, name string) string {
	return "/" + path.Join(folder, name)
}

func (s *LocalStore) ensureFolder(folder string) (string, error) {
	dir := filepath.Join(s.root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	return dir, nil
}

func generateName(originalName string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(originalName)))
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}
