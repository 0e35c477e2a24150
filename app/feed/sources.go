package feed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSources resolves the ordered list of feed sources for a run: YAML
// source files from feedsDir first (sorted by file name), then the plain
// URL list from configuration. Order is preserved because feeds are
// processed in configured order.
func LoadSources(feedURLs []string, feedsDir string) ([]Source, error) {
	sources := make([]Source, 0, len(feedURLs))

	if feedsDir != "" {
		fromDir, err := loadSourceFiles(feedsDir)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fromDir...)
	}

	for _, url := range feedURLs {
		sources = append(sources, Source{URL: url, Enabled: true})
	}

	return sources, nil
}

func loadSourceFiles(feedsDir string) ([]Source, error) {
	if _, err := os.Stat(feedsDir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matched, err := filepath.Glob(filepath.Join(feedsDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to find source files: %w", err)
		}
		files = append(files, matched...)
	}
	sort.Strings(files)

	sources := make([]Source, 0, len(files))
	for _, file := range files {
		source, err := parseSourceFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if !source.Enabled {
			slog.Debug("Feed source disabled, skipping", "source", source.Name)
			continue
		}

		sources = append(sources, *source)
		slog.Debug("Feed source loaded", "source", source.Name, "url", source.URL)
	}

	return sources, nil
}

func parseSourceFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Name == "" {
		fileName := filepath.Base(path)
		source.Name = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}

	if err := validateSource(&source); err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", path, err)
	}

	return &source, nil
}

func validateSource(source *Source) error {
	if source.URL == "" {
		return fmt.Errorf("feed URL is required")
	}
	if source.MaxItems < 0 {
		return fmt.Errorf("max items must be non-negative")
	}

	validFields := map[string]bool{
		"title":       true,
		"description": true,
		"content":     true,
		"author":      true,
		"link":        true,
	}

	for i, filter := range source.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
