package categorize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk taxonomy layout: a YAML sequence so that match order is
// the order the categories are written in.
//
//	- label: travel
//	  keywords: [hotel, flight]
type File []Category

// Load reads a taxonomy from a YAML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML taxonomy data.
func Parse(data []byte) (*Taxonomy, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	return New(f)
}

// LoadOrDefault loads path, or returns the built-in taxonomy when path is empty.
func LoadOrDefault(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
