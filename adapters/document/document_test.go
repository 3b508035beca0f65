package document

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 128, A: 255})
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeDataURI(t *testing.T, uri string) image.Image {
	t.Helper()
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("uri = %.40q", uri)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestLogoIsFittedKeepingAspect(t *testing.T) {
	uri, err := LogoDataURI(jpegBytes(t, 800, 400), LogoSize)
	if err != nil {
		t.Fatal(err)
	}
	b := decodeDataURI(t, uri).Bounds()
	if b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("logo is %dx%d, want 200x100", b.Dx(), b.Dy())
	}
}

func TestSmallLogoIsNotEnlarged(t *testing.T) {
	uri, err := LogoDataURI(jpegBytes(t, 64, 32), LogoSize)
	if err != nil {
		t.Fatal(err)
	}
	b := decodeDataURI(t, uri).Bounds()
	if b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("logo is %dx%d, want 64x32", b.Dx(), b.Dy())
	}
}

func TestLoadLogo(t *testing.T) {
	if uri, err := LoadLogo(""); err != nil || uri != "" {
		t.Errorf("LoadLogo(\"\") = %q, %v", uri, err)
	}

	path := filepath.Join(t.TempDir(), "logo.jpg")
	if err := os.WriteFile(path, jpegBytes(t, 300, 300), 0o644); err != nil {
		t.Fatal(err)
	}
	uri, err := LoadLogo(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := decodeDataURI(t, uri).Bounds(); b.Dx() != LogoSize || b.Dy() != LogoSize {
		t.Errorf("logo is %dx%d", b.Dx(), b.Dy())
	}

	if _, err := LoadLogo(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for a missing file")
	}
	if _, err := LogoDataURI([]byte("not an image"), LogoSize); err == nil {
		t.Error("expected error for undecodable data")
	}
}

func TestDetectChromePathPrefersConfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chrome")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := DetectChromePath(path); got != path {
		t.Errorf("DetectChromePath = %q, want %q", got, path)
	}
}

// TestChromeRendererPrintsPDF needs a real browser. Set CHROME_PATH to run it.
func TestChromeRendererPrintsPDF(t *testing.T) {
	if os.Getenv("CHROME_PATH") == "" {
		t.Skip("CHROME_PATH not set")
	}
	r := NewChromeRenderer("", time.Minute)
	pdf, err := r.RenderPDF(context.Background(), []byte("<html><body><h1>Devis</h1></body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %.8q", pdf)
	}
}
