package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

// LogoSize is the largest logo edge in pixels. The document shows it at
// 100px, twice that keeps it sharp in print.
const LogoSize = 200

// LoadLogo reads an image file and returns it as a PNG data URI fitted
// inside LogoSize x LogoSize. An empty path returns an empty URI.
func LoadLogo(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	return LogoDataURI(data, LogoSize)
}

// LogoDataURI fits raw image bytes (PNG, JPEG, GIF, BMP, TIFF) inside a
// maxPx square, keeping the aspect ratio, and encodes the result as PNG.
func LogoDataURI(data []byte, maxPx int) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode logo: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > maxPx || b.Dy() > maxPx {
		img = imaging.Fit(img, maxPx, maxPx, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode logo: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
