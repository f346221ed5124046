// SPDX-License-Identifier: MIT

// Package fetch reads source documents from local paths or HTTP URLs.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Booza1981/iptv-stack/internal/log"
)

const userAgent = "logopatch/1.0"

// 100MB guard for downloaded documents.
const maxBodySize = 100 * 1024 * 1024

type Client struct {
	http *http.Client
}

func New() *Client {
	return &Client{http: &http.Client{Timeout: 30 * time.Second}}
}

// IsURL reports whether source should be downloaded rather than read from
// disk.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Read returns the content behind source, which is either a filesystem path
// or an http(s) URL. Redirects are followed; a non-2xx response is an error.
func (c *Client) Read(ctx context.Context, source string) ([]byte, error) {
	if !IsURL(source) {
		data, err := os.ReadFile(filepath.Clean(source))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", source, err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", source, err)
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil {
			logger := log.WithComponentFromContext(ctx, "fetch")
			logger.Debug().Err(cerr).Msg("close response body")
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("download %s: unexpected status %d", source, res.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("download %s: read body: %w", source, err)
	}
	return data, nil
}
