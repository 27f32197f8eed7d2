package loaders

import (
	"bytes"
		"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

// EncodePNG writes img to w in PNG format
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return xerrors.Errorf("while encoding PNG: %w", err)
	}
	return nil
}

// PNGBytes returns the PNG encoding of img
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SavePNG writes img to filename, creating parent directories as needed
func SavePNG(filename string, img image.Image) error {
	data, err := PNGBytes(img)
	if err != nil {
		return err
	}
	return WriteImageFile(filename, data)
}

// WriteImageFile writes already-encoded image bytes to filename
func WriteImageFile(filename string, data []byte) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return xerrors.Errorf("while creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return xerrors.Errorf("while writing image file: %w", err)
	}
	return nil
}

// LoadPNG decodes a PNG file
func LoadPNG(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, xerrors.Errorf("while opening image file: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, xerrors.Errorf("while decoding image: %w", err)
	}
	return img, nil
}
