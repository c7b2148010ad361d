package render

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Filename is the output name for block id. Colons in the block name are
// replaced so the name is valid on every filesystem.
func Filename(id int, name string) string {
	return fmt.Sprintf("block_%d_%s.png", id, strings.ReplaceAll(name, ":", "_"))
}

// Write encodes img as PNG into dir under Filename(id, name) and returns the
// final path. The file appears atomically; a failed write leaves nothing
// behind.
func Write(img image.Image, dir string, id int, name string) (string, error) {
	path := filepath.Join(dir, Filename(id, name))

	tmp, err := os.CreateTemp(dir, ".block_*.png.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := png.Encode(bw, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to set mode of %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return path, nil
}
