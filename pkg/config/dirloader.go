package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// LoadError represents an error loading a specific file.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// LoadResult contains the result of loading a directory or glob.
type LoadResult struct {
	// Collection is the merged collection
	Collection *Collection

	// FileCount is the number of files loaded successfully
	FileCount int

	// Errors are any non-fatal per-file errors encountered
	Errors []LoadError
}

// DirectoryLoader loads configuration files from a directory.
type DirectoryLoader struct {
	// Path is the directory to load from
	Path string

	// Recursive if true, scans subdirectories
	Recursive bool
}

// NewDirectoryLoader creates a recursive loader for a directory.
func NewDirectoryLoader(path string) *DirectoryLoader {
	return &DirectoryLoader{Path: path, Recursive: true}
}

// Load reads every .yaml, .yml, and .json file in the directory (sorted, for
// deterministic merge order) and merges the collections. Files that fail to
// load are reported in the result and skipped; the directory itself being
// missing is an error.
func (d *DirectoryLoader) Load() (*LoadResult, error) {
	info, err := os.Stat(d.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %s", d.Path)
		}
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", d.Path)
	}

	files, err := d.findConfigFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}
	return loadAll(files, "Loaded from "+d.Path), nil
}

func (d *DirectoryLoader) findConfigFiles() ([]string, error) {
	var files []string
	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if !d.Recursive && path != d.Path {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" || ext == ".json" {
			files = append(files, path)
		}
		return nil
	}
	if err := filepath.Walk(d.Path, walkFn); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// LoadGlob loads and merges every file matching a glob pattern. Patterns
// containing ** match recursively.
func LoadGlob(pattern string) (*LoadResult, error) {
	matches, err := expandGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	sort.Strings(matches)
	return loadAll(matches, "Loaded from "+pattern), nil
}

// expandGlob expands a glob pattern to matching file paths. Uses doublestar
// for ** support, plain filepath.Glob otherwise.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return doublestar.FilepathGlob(pattern)
	}
	return filepath.Glob(pattern)
}

func loadAll(files []string, name string) *LoadResult {
	result := &LoadResult{
		Collection: &Collection{Version: "1.0", Name: name},
	}
	for _, file := range files {
		collection, err := LoadFromFile(file)
		if err != nil {
			result.Errors = append(result.Errors, LoadError{
				Path:    file,
				Message: "failed to load",
				Err:     err,
			})
			continue
		}
		result.Collection.Merge(collection)
		result.FileCount++
	}
	return result
}
