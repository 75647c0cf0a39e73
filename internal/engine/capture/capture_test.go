package capture

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// twoRows is a 1x2 frame: red on the bottom row, blue on the top.
var twoRows = []byte{
	255, 0, 0, 255,
	0, 0, 255, 255,
}

func TestFromBottomUpFlips(t *testing.T) {
	img, err := FromBottomUp(twoRows, 1, 2)
	if err != nil {
		t.Fatalf("FromBottomUp failed: %v", err)
	}

	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top pixel = %v, want blue", got)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom pixel = %v, want red", got)
	}
}

func TestFromBottomUpErrors(t *testing.T) {
	if _, err := FromBottomUp(twoRows, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := FromBottomUp(nil, 0, 0); err == nil {
		t.Error("expected error for empty frame")
	}
}

func TestSavePixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "bunny")
	s.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }

	path, err := s.SavePixels(twoRows, 1, 2)
	if err != nil {
		t.Fatalf("SavePixels failed: %v", err)
	}
	if want := filepath.Join(dir, "bunny-20240301-093000.000.png"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening screenshot: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding screenshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1 || b.Dy() != 2 {
		t.Errorf("unexpected bounds %v", b)
	}
	if r, _, bl, _ := img.At(0, 0).RGBA(); r != 0 || bl == 0 {
		t.Error("expected the top row to be blue after flipping")
	}
}

func TestFilenameDefaultsToWorkingDir(t *testing.T) {
	s := NewScreenshots("", "frame")
	name := s.Filename()
	if filepath.Dir(name) != "." || !strings.HasPrefix(name, "frame-") || !strings.HasSuffix(name, ".png") {
		t.Errorf("unexpected filename %s", name)
	}
}
