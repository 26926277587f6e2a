package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading/saving.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
)

// LoadFromFile reads a Collection from a JSON or YAML file. The format is
// auto-detected from the file extension (.yaml, .yml for YAML, otherwise
// JSON). The loaded collection is validated.
func LoadFromFile(path string) (*Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return ParseYAML(data)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w in file: %s", ErrInvalidJSON, path)
	}
	return ParseJSON(data)
}

// ParseJSON parses JSON bytes into a Collection with validation.
func ParseJSON(data []byte) (*Collection, error) {
	var collection Collection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := collection.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &collection, nil
}

// ParseYAML parses YAML bytes into a Collection with validation.
func ParseYAML(data []byte) (*Collection, error) {
	var collection Collection
	if err := yaml.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if err := collection.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &collection, nil
}

// ToJSON marshals a Collection to formatted JSON bytes.
func ToJSON(collection *Collection) ([]byte, error) {
	if collection == nil {
		return nil, errors.New("collection cannot be nil")
	}
	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ToYAML marshals a Collection to YAML bytes.
func ToYAML(collection *Collection) ([]byte, error) {
	if collection == nil {
		return nil, errors.New("collection cannot be nil")
	}
	data, err := yaml.Marshal(collection)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return data, nil
}

// SaveToFile writes a Collection to a file using atomic rename. The format
// follows the file extension. Parent directories are created as needed.
func SaveToFile(path string, collection *Collection) error {
	if collection == nil {
		return errors.New("collection cannot be nil")
	}

	ext := strings.ToLower(filepath.Ext(path))
	var data []byte
	var err error
	if ext == ".yaml" || ext == ".yml" {
		data, err = ToYAML(collection)
	} else {
		data, err = ToJSON(collection)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
