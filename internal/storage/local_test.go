package storage

import (
	"bytes"
	"errors"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return s
}

func TestSaveAndOpen(t *testing.T) {
	s := newStore(t)

	name, err := s.Save(FolderCVs, "My CV.PDF", strings.NewReader("resume"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Ext(name) != ".pdf" || strings.Contains(name, "My CV") {
		t.Fatalf("unexpected generated name %q", name)
	}

	f, size, err := s.Open(FolderCVs, name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	data, _ := io.ReadAll(f)
	if string(data) != "resume" || size != int64(len("resume")) {
		t.Fatalf("read back %q (%d bytes)", data, size)
	}
}

func TestSaveGeneratesDistinctNames(t *testing.T) {
	s := newStore(t)
	a, err := s.Save(FolderCVs, "cv.pdf", strings.NewReader("a"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Save(FolderCVs, "cv.pdf", strings.NewReader("b"))
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two uploads with the same original name collided")
	}
}

func TestOpenErrors(t *testing.T) {
	s := newStore(t)

	tests := []struct {
		name    string
		file    string
		wantErr error
	}{
		{name: "missing", file: "nope.pdf", wantErr: ErrFileNotFound},
		{name: "traversal", file: "../secret", wantErr: ErrInvalidName},
		{name: "separator", file: "a/b.pdf", wantErr: ErrInvalidName},
		{name: "empty", file: "", wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := s.Open(FolderCVs, tt.file); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Open(%q) error = %v, want %v", tt.file, err, tt.wantErr)
			}
		})
	}
}

func TestSaveImageResizes(t *testing.T) {
	s := newStore(t)

	var buf bytes.Buffer
	src := imaging.New(2000, 1000, color.NRGBA{R: 200, A: 255})
	if err := imaging.Encode(&buf, src, imaging.PNG); err != nil {
		t.Fatal(err)
	}

	name, err := s.SaveImage(FolderLogos, "logo.png", &buf, LogoMaxDimension)
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}

	img, err := imaging.Open(filepath.Join(s.Root(), filepath.FromSlash(FolderLogos), name))
	if err != nil {
		t.Fatalf("open stored logo: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 256 {
		t.Fatalf("stored logo is %dx%d, want 512x256", b.Dx(), b.Dy())
	}

	if got := PublicPath(FolderLogos, name); got != "/images/logos/"+name {
		t.Fatalf("PublicPath = %q", got)
	}
}

func TestSaveImageRejectsNonImages(t *testing.T) {
	s := newStore(t)

	if _, err := s.SaveImage(FolderLogos, "logo.exe", strings.NewReader("x"), LogoMaxDimension); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := s.SaveImage(FolderLogos, "logo.png", strings.NewReader("not a png"), LogoMaxDimension); err == nil {
		t.Fatal("expected a decode error")
	}

	entries, _ := os.ReadDir(filepath.Join(s.Root(), filepath.FromSlash(FolderLogos)))
	if len(entries) != 0 {
		t.Fatalf("failed uploads left %d files behind", len(entries))
	}
}
