// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package panel

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
)

// FileLoader resolves resource names to bitmap files under Dir. A name
// without extension is looked up as .bmp first, then .png.
type FileLoader struct {
	Dir string
}

func (l FileLoader) Load(name string) (image.Image, error) {
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = []string{name + ".bmp", name + ".png"}
	}

	var lastErr error
	for _, c := range candidates {
		img, err := decodeFile(filepath.Join(l.Dir, c))
		if err == nil {
			return img, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("resource %q: %w", name, lastErr)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
