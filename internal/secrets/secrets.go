// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Recognized key files: semantic-scholar-api-key, openalex-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/phm-curator/pkg/types"
)

// Key file names read by ApplySearch.
const (
	SemanticScholarAPIKey = "semantic-scholar-api-key"
	OpenAlexEmail         = "openalex-email"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// ApplySearch fills source credentials in cfg that configuration left
// empty. Values already set by the config file or environment win.
func ApplySearch(cfg *types.SearchConfig, secrets map[string]string) {
	if cfg.SemanticScholarAPIKey == "" {
		cfg.SemanticScholarAPIKey = secrets[SemanticScholarAPIKey]
	}
	if cfg.OpenAlexEmail == "" {
		cfg.OpenAlexEmail = secrets[OpenAlexEmail]
	}
}

// Names returns the loaded key names in sorted order, for logging without
// exposing values.
func Names(secrets map[string]string) []string {
	names := make([]string, 0, len(secrets))
	for k := range secrets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
