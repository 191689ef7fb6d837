// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package archive stores the downloaded Speisenplan PDFs on disk. The layout
// is a flat directory of Speisenplan_KW_<week>.pdf files, so the archive
// holds at most one PDF per calendar week and a new year's fetch replaces
// the previous year's file for the same week number.
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mensahub/mensad/internal/logging"
)

// Archive is a directory of downloaded meal plan PDFs.
type Archive struct {
	dir string
}

// New returns an archive rooted at dir. The directory is created lazily on
// the first Save.
func New(dir string) *Archive {
	return &Archive{dir: dir}
}

// Dir returns the archive root.
func (a *Archive) Dir() string {
	return a.dir
}

// Filename returns the canonical archive name for a calendar week.
func Filename(week int) string {
	return fmt.Sprintf("Speisenplan_KW_%d.pdf", week)
}

// Save writes the PDF for the given calendar week and returns its path.
// The write goes through a temp file in the same directory followed by a
// rename, so readers never observe a partially written PDF.
func (a *Archive) Save(week int, data []byte) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	tmp, err := os.CreateTemp(a.dir, ".Speisenplan_*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	path := filepath.Join(a.dir, Filename(week))
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move PDF into archive: %w", err)
	}
	return path, nil
}

// Path returns the on-disk path of the archived PDF for the given ISO year
// and week. Because the layout keys files by week number only, a file whose
// modification time falls in a different ISO year reports fs.ErrNotExist:
// that year's PDF has been replaced.
func (a *Archive) Path(year, week int) (string, error) {
	path := filepath.Join(a.dir, Filename(week))
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if y, _ := fi.ModTime().ISOWeek(); y != year {
		return "", fmt.Errorf("%s holds a different year's plan: %w", path, fs.ErrNotExist)
	}
	return path, nil
}

// Entry describes one archived PDF.
type Entry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// List returns the archived PDFs, newest first. A missing archive directory
// is treated as an empty archive.
func (a *Archive) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(a.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".pdf") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			logging.Warnf("Skipping unreadable archive entry %s: %v", name, err)
			continue
		}
		entries = append(entries, Entry{Name: name, Size: info.Size(), ModTime: info.ModTime()})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].ModTime.After(entries[j].ModTime)
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Contains reports whether name is one of the archived PDFs. Callers serving
// files over HTTP use this to reject anything not in the listing.
func (a *Archive) Contains(name string) (bool, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return false, nil
	}
	entries, err := a.List()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// Prune removes the oldest PDFs until at most keep remain. keep <= 0 keeps
// everything. It returns the number of files removed; removal errors are
// logged and the last one is returned after the sweep completes.
func (a *Archive) Prune(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	entries, err := a.List()
	if err != nil {
		return 0, err
	}
	if len(entries) <= keep {
		return 0, nil
	}

	removed := 0
	var lastErr error
	for _, e := range entries[keep:] {
		if err := os.Remove(filepath.Join(a.dir, e.Name)); err != nil {
			logging.Warnf("Failed to prune %s: %v", e.Name, err)
			lastErr = err
			continue
		}
		removed++
	}
	return removed, lastErr
}
