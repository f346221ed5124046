// SPDX-License-Identifier: MIT

package dropbox

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestCredentialsComplete(t *testing.T) {
	if (Credentials{}).Complete() {
		t.Fatal("empty credentials must not be complete")
	}
	if (Credentials{RefreshToken: "r", AppKey: "k"}).Complete() {
		t.Fatal("partial credentials must not be complete")
	}
	if !(Credentials{RefreshToken: "r", AppKey: "k", AppSecret: "s"}).Complete() {
		t.Fatal("full credentials must be complete")
	}
}

func TestRemotePath(t *testing.T) {
	tests := []struct {
		dir   string
		local string
		want  string
	}{
		{"/", "/tmp/out/final.xml", "/final.xml"},
		{"/iptv", "final.m3u", "/iptv/final.m3u"},
		{"iptv/", "out/final.m3u", "/iptv/final.m3u"},
	}
	for _, tt := range tests {
		if got := RemotePath(tt.dir, tt.local); got != tt.want {
			t.Fatalf("RemotePath(%q, %q) = %q, want %q", tt.dir, tt.local, got, tt.want)
		}
	}
}

func TestUpload(t *testing.T) {
	var tokenCalls atomic.Int32
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		if got := r.Form.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		_, _ = w.Write([]byte(`{"access_token": "tok123", "expires_in": 14400}`))
	}))
	defer auth.Close()

	var uploaded []byte
	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q", got)
		}
		if arg := r.Header.Get("Dropbox-API-Arg"); arg == "" {
			t.Error("missing Dropbox-API-Arg header")
		}
		var err error
		uploaded, err = io.ReadAll(r.Body)
		if err != nil {
			t.Error(err)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer content.Close()

	local := filepath.Join(t.TempDir(), "final.xml")
	if err := os.WriteFile(local, []byte("<tv/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewWithBases(Credentials{RefreshToken: "r", AppKey: "k", AppSecret: "s"}, auth.URL, content.URL)
	if err := c.Upload(context.Background(), local, "/iptv/final.xml"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if string(uploaded) != "<tv/>" {
		t.Fatalf("uploaded body = %q", uploaded)
	}

	// second upload inside the expiry window reuses the cached token
	if err := c.Upload(context.Background(), local, "/iptv/final.xml"); err != nil {
		t.Fatalf("second Upload failed: %v", err)
	}
	if got := tokenCalls.Load(); got != 1 {
		t.Fatalf("token endpoint hit %d times, want 1", got)
	}
}

func TestTokenRefreshAfterExpiry(t *testing.T) {
	var tokenCalls atomic.Int32
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		_, _ = w.Write([]byte(`{"access_token": "tok", "expires_in": 600}`))
	}))
	defer auth.Close()
	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer content.Close()

	local := filepath.Join(t.TempDir(), "f.m3u")
	if err := os.WriteFile(local, []byte("#EXTM3U\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewWithBases(Credentials{RefreshToken: "r", AppKey: "k", AppSecret: "s"}, auth.URL, content.URL)
	clock := time.Now()
	c.now = func() time.Time { return clock }

	if err := c.Upload(context.Background(), local, "/f.m3u"); err != nil {
		t.Fatal(err)
	}
	// advance past the 600s lifetime minus the refresh buffer
	clock = clock.Add(10 * time.Minute)
	if err := c.Upload(context.Background(), local, "/f.m3u"); err != nil {
		t.Fatal(err)
	}
	if got := tokenCalls.Load(); got != 2 {
		t.Fatalf("token endpoint hit %d times, want 2", got)
	}
}

func TestUploadAuthFailure(t *testing.T) {
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad refresh token", http.StatusBadRequest)
	}))
	defer auth.Close()

	local := filepath.Join(t.TempDir(), "f.m3u")
	if err := os.WriteFile(local, []byte("#EXTM3U\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewWithBases(Credentials{RefreshToken: "bad", AppKey: "k", AppSecret: "s"}, auth.URL, auth.URL)
	if err := c.Upload(context.Background(), local, "/f.m3u"); err == nil {
		t.Fatal("expected error when token refresh fails")
	}
}
