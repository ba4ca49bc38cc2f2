package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Key     string    `json:"key,omitempty"`
	Name    string    `json:"name"`
	Path    string    `json:"-"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified_at,omitempty"`
	Exists  bool      `json:"exists"`
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery rooted at basePath
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindFilesByExtension returns the regular files in dir with extension ext
// (case-insensitive, including the dot), sorted by name
func (d *Discovery) FindFilesByExtension(dir, ext string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(fullPath, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Exists:  true,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// FindCSVFiles finds all CSV files in dir
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return d.FindFilesByExtension(dir, ".csv")
}

// FindFilesByPattern finds files matching a glob pattern
func (d *Discovery) FindFilesByPattern(dir, pattern string) ([]FileInfo, error) {
	matches, err := filepath.Glob(filepath.Join(d.resolve(dir), pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		if info := Stat(match); info.Exists {
			files = append(files, info)
		}
	}
	return files, nil
}

// Stat describes path; a missing file or a directory yields Exists=false
func Stat(path string) FileInfo {
	fi := FileInfo{Name: filepath.Base(path), Path: path}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fi
	}
	fi.Size = info.Size()
	fi.ModTime = info.ModTime()
	fi.Exists = true
	return fi
}

// GetLatestFile returns the most recently modified existing file
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	var latest FileInfo
	found := false
	for _, file := range files {
		if !file.Exists {
			continue
		}
		if !found || file.ModTime.After(latest.ModTime) {
			latest = file
			found = true
		}
	}
	return latest, found
}
