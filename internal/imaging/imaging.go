/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package imaging decodes dropped image files for placement on the board.
// Decoding happens off the event thread; the caller hands the decoded
// bitmaps to the board on its own schedule.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	applog "inkboard/internal/log"

	// stdlib decoders registered for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// extended decoders
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedFormat is returned when a file's extension is not in
	// the accepted set. A drop containing any unsupported file is rejected
	// whole so the user never gets a partial placement.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrNotFound is returned when a dropped path does not exist.
	ErrNotFound = errors.New("image file not found")
)

// acceptedExts lists the extensions the board accepts on drop. SVG is
// listed because the UI layer rasterizes it natively; Decode rejects it
// here and the caller routes it separately.
var acceptedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
	".svg":  true,
}

// Loaded is one successfully decoded drop entry.
type Loaded struct {
	Path   string
	Name   string
	Bitmap image.Image
	// SVG marks vector files the caller must rasterize itself.
	SVG bool
}

// Accepted reports whether the file extension is in the accepted set.
// The check is case-insensitive.
func Accepted(path string) bool {
	return acceptedExts[strings.ToLower(filepath.Ext(path))]
}

// CheckAll validates a whole drop before any decoding starts. It returns
// ErrUnsupportedFormat wrapping the first offending path, so a mixed drop
// fails atomically.
func CheckAll(paths []string) error {
	for _, p := range paths {
		if !Accepted(p) {
			return fmt.Errorf("%q: %w", filepath.Base(p), ErrUnsupportedFormat)
		}
	}
	return nil
}

// Load decodes every file in a drop. The drop is validated up front and
// rejected whole on the first unsupported extension. Past that gate a file
// that fails to decode is skipped; its error is joined into the returned
// error while the remaining files still produce entries.
func Load(paths []string) ([]Loaded, error) {
	l := applog.WithComponent("imaging")
	if err := CheckAll(paths); err != nil {
		l.Warn("drop rejected", slog.Any("err", err))
		return nil, err
	}
	out := make([]Loaded, 0, len(paths))
	var errs []error
	for _, p := range paths {
		entry, err := loadOne(p)
		if err != nil {
			l.Warn("decode failed, file skipped", slog.String("path", p), slog.Any("err", err))
			errs = append(errs, err)
			continue
		}
		out = append(out, entry)
	}
	l.Info("drop decoded", slog.Int("files", len(out)), slog.Int("skipped", len(errs)))
	return out, errors.Join(errs...)
}

func loadOne(path string) (Loaded, error) {
	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Loaded{}, fmt.Errorf("%q: %w", name, ErrNotFound)
			}
			return Loaded{}, fmt.Errorf("stat %q: %w", name, err)
		}
		return Loaded{Path: path, Name: name, SVG: true}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Loaded{}, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return Loaded{}, fmt.Errorf("open %q: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return Loaded{}, fmt.Errorf("decode %q: %w", name, err)
	}
	return Loaded{Path: path, Name: name, Bitmap: img}, nil
}
