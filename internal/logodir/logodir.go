// SPDX-License-Identifier: MIT

// Package logodir fetches a logo directory listing from the GitHub contents
// API and renders it in the catalog's filename|url format.
package logodir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Booza1981/iptv-stack/internal/log"
)

const defaultBase = "https://api.github.com"

// File is one image in the remote logo directory.
type File struct {
	Name        string
	DownloadURL string
}

type Client struct {
	base string
	http *http.Client
}

func New() *Client {
	return NewWithBase(defaultBase)
}

// NewWithBase exists for tests that point the client at a stub server.
func NewWithBase(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// Listing returns the .png files in the given repository directory.
func (c *Client) Listing(ctx context.Context, owner, repo, dir string) ([]File, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.base, owner, repo, dir)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil {
			logger := log.WithComponentFromContext(ctx, "logodir")
			logger.Debug().Err(cerr).Msg("close listing body")
		}
	}()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing: unexpected status %d", res.StatusCode)
	}

	var items []struct {
		Name        string `json:"name"`
		Type        string `json:"type"`
		DownloadURL string `json:"download_url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	out := make([]File, 0, len(items))
	for _, it := range items {
		if it.Type != "file" || !strings.HasSuffix(it.Name, ".png") {
			continue
		}
		out = append(out, File{Name: it.Name, DownloadURL: it.DownloadURL})
	}
	return out, nil
}

// Lines renders files as filename|url records, one per line, ready for the
// catalog loader.
func Lines(files []File) string {
	var b strings.Builder
	for _, f := range files {
		b.WriteString(f.Name)
		b.WriteString("|")
		b.WriteString(f.DownloadURL)
		b.WriteString("\n")
	}
	return b.String()
}
