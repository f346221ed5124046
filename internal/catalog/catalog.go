// SPDX-License-Identifier: MIT

// Package catalog indexes known logo filenames and their URLs for lookup by
// normalized channel name.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Booza1981/iptv-stack/internal/log"
	"github.com/Booza1981/iptv-stack/internal/normalize"
)

// Entry is a single logo record from the listing file.
type Entry struct {
	Filename string
	URL      string
}

// Catalog is a read-only index of logo entries keyed by normalized filename.
type Catalog struct {
	byKey   map[string]Entry
	keys    []string // insertion order, for deterministic substring ties
	skipped int
}

// Load parses `filename|url` records from r. Lines that do not split into a
// filename and a URL are skipped and counted, never fatal. When two filenames
// normalize to the same key the first entry wins.
func Load(r io.Reader) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]Entry)}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		name, url, ok := strings.Cut(line, "|")
		if !ok || name == "" || url == "" {
			c.skipped++
			continue
		}
		key := normalize.Key(name)
		if key == "" {
			c.skipped++
			continue
		}
		if _, exists := c.byKey[key]; exists {
			// first-seen wins on collision
			continue
		}
		c.byKey[key] = Entry{Filename: name, URL: url}
		c.keys = append(c.keys, key)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read logo list: %w", err)
	}
	return c, nil
}

// LoadFile reads the logo listing from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open logo list: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger := log.WithComponent("catalog")
			logger.Debug().Err(cerr).Msg("close logo list")
		}
	}()
	return Load(f)
}

// Lookup resolves a normalized channel key against the catalog. Exact key
// matches win; otherwise the entry whose key contains (or is contained in)
// the channel key is chosen. Candidates are ranked by the length of the
// contained side, so a longer overlap beats a shorter one and equal overlaps
// fall back to insertion order.
func (c *Catalog) Lookup(key string) (Entry, bool) {
	if key == "" {
		return Entry{}, false
	}
	if e, ok := c.byKey[key]; ok {
		return e, true
	}

	best := ""
	bestOverlap := 0
	for _, k := range c.keys {
		if !strings.Contains(k, key) && !strings.Contains(key, k) {
			continue
		}
		overlap := len(k)
		if len(key) < overlap {
			overlap = len(key)
		}
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = k
		}
	}
	if best == "" {
		return Entry{}, false
	}
	return c.byKey[best], true
}

// Len reports the number of indexed entries.
func (c *Catalog) Len() int { return len(c.keys) }

// Skipped reports how many listing lines were rejected during Load.
func (c *Catalog) Skipped() int { return c.skipped }
