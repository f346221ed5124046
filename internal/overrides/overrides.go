// SPDX-License-Identifier: MIT

// Package overrides holds manually curated channel-to-logo assignments that
// take precedence over automatic matching.
package overrides

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Table maps a channel identifier to an explicit logo URL. Keys are literal:
// no normalization is applied, so an override fires only for the exact id it
// was written for.
type Table struct {
	urls map[string]string
}

// Load reads a JSON object of channel id to URL from path. A missing file
// yields an empty table, not an error; the fixes file is optional. Invalid
// JSON is an error since a half-read override set would silently misassign
// logos.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Table{urls: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("read overrides file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON object of channel id to URL.
func Parse(data []byte) (*Table, error) {
	urls := map[string]string{}
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("parse overrides file: %w", err)
	}
	return &Table{urls: urls}, nil
}

// Lookup returns the override URL for the given channel id, if one exists.
func (t *Table) Lookup(channelID string) (string, bool) {
	url, ok := t.urls[channelID]
	return url, ok
}

// Len reports the number of override entries.
func (t *Table) Len() int { return len(t.urls) }
