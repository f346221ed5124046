// SPDX-License-Identifier: MIT

// Package dropbox uploads produced files to a Dropbox folder using the
// refresh-token OAuth2 flow.
package dropbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Booza1981/iptv-stack/internal/log"
)

const (
	defaultAuthBase    = "https://api.dropboxapi.com"
	defaultContentBase = "https://content.dropboxapi.com"

	// refresh slightly early so an expiring token never hits the content API
	expiryBuffer = 5 * time.Minute
)

// Credentials holds the refresh-token OAuth2 triple.
type Credentials struct {
	RefreshToken string
	AppKey       string
	AppSecret    string
}

// Complete reports whether all three credential fields are set.
func (c Credentials) Complete() bool {
	return c.RefreshToken != "" && c.AppKey != "" && c.AppSecret != ""
}

type Client struct {
	creds       Credentials
	authBase    string
	contentBase string
	http        *http.Client

	token  string
	expiry time.Time
	now    func() time.Time
}

func New(creds Credentials) *Client {
	return NewWithBases(creds, defaultAuthBase, defaultContentBase)
}

// NewWithBases exists for tests that point the client at stub servers.
func NewWithBases(creds Credentials, authBase, contentBase string) *Client {
	return &Client{
		creds:       creds,
		authBase:    strings.TrimRight(authBase, "/"),
		contentBase: strings.TrimRight(contentBase, "/"),
		http:        &http.Client{Timeout: 60 * time.Second},
		now:         time.Now,
	}
}

// accessToken returns a valid access token, refreshing it when missing or
// about to expire.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.token != "" && c.now().Before(c.expiry) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.creds.RefreshToken},
		"client_id":     {c.creds.AppKey},
		"client_secret": {c.creds.AppSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBase+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil {
			logger := log.WithComponentFromContext(ctx, "dropbox")
			logger.Debug().Err(cerr).Msg("close token body")
		}
	}()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh token: unexpected status %d", res.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("refresh token: empty access token in response")
	}

	expiresIn := payload.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 14400 // Dropbox default token lifetime
	}
	c.token = payload.AccessToken
	c.expiry = c.now().Add(time.Duration(expiresIn)*time.Second - expiryBuffer)
	return c.token, nil
}

// Upload sends the local file to remotePath, overwriting any existing file.
func (c *Client) Upload(ctx context.Context, localPath, remotePath string) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Clean(localPath))
	if err != nil {
		return fmt.Errorf("read %s: %w", localPath, err)
	}

	arg, err := json.Marshal(map[string]any{
		"path": remotePath,
		"mode": "overwrite",
	})
	if err != nil {
		return fmt.Errorf("marshal upload arg: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.contentBase+"/2/files/upload", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Dropbox-API-Arg", string(arg))
	req.Header.Set("Content-Type", "application/octet-stream")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", remotePath, err)
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil {
			logger := log.WithComponentFromContext(ctx, "dropbox")
			logger.Debug().Err(cerr).Msg("close upload body")
		}
	}()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("upload %s: unexpected status %d", remotePath, res.StatusCode)
	}
	return nil
}

// RemotePath joins the configured Dropbox folder with the local file's base
// name, always rooted at "/".
func RemotePath(dir, localPath string) string {
	p := path.Join("/", strings.Trim(dir, "/"), filepath.Base(localPath))
	return p
}
