package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"spendwise/internal/core"
)

// categoriesFile is the YAML layout of CATEGORIES_FILE:
//
//	categories:
//	  - Food
//	  - Transport
type categoriesFile struct {
	Categories []string `yaml:"categories"`
}

// LoadCategoriesFile reads the category list from a YAML file.
func LoadCategoriesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}
	var f categoriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse categories file %s: %w", path, err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("categories file %s: no categories listed", path)
	}
	return f.Categories, nil
}

// Registry builds the category registry. The file takes precedence over the
// CATEGORIES list; with neither set the default categories are used.
func (c *Config) Registry() (*core.Registry, error) {
	names := c.Categories
	if c.CategoriesFile != "" {
		fromFile, err := LoadCategoriesFile(c.CategoriesFile)
		if err != nil {
			return nil, err
		}
		names = fromFile
	}
	if len(names) == 0 {
		return core.DefaultRegistry(), nil
	}
	reg, err := core.NewRegistry(names)
	if err != nil {
		return nil, fmt.Errorf("invalid categories: %w", err)
	}
	return reg, nil
}
