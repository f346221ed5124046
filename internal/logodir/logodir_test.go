// SPDX-License-Identifier: MIT

package logodir

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/tv-logo/tv-logos/contents/countries/united-kingdom" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"name": "bbc-one-uk.png", "type": "file", "download_url": "http://raw/bbc-one-uk.png"},
			{"name": "subdir", "type": "dir", "download_url": ""},
			{"name": "readme.md", "type": "file", "download_url": "http://raw/readme.md"},
			{"name": "itv-1-uk.png", "type": "file", "download_url": "http://raw/itv-1-uk.png"}
		]`))
	}))
	defer srv.Close()

	files, err := NewWithBase(srv.URL).Listing(context.Background(), "tv-logo", "tv-logos", "countries/united-kingdom")
	if err != nil {
		t.Fatalf("Listing failed: %v", err)
	}
	want := []File{
		{Name: "bbc-one-uk.png", DownloadURL: "http://raw/bbc-one-uk.png"},
		{Name: "itv-1-uk.png", DownloadURL: "http://raw/itv-1-uk.png"},
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestListingBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewWithBase(srv.URL).Listing(context.Background(), "o", "r", "d"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestLines(t *testing.T) {
	got := Lines([]File{
		{Name: "bbc-one-uk.png", DownloadURL: "http://raw/bbc-one-uk.png"},
		{Name: "itv-1-uk.png", DownloadURL: "http://raw/itv-1-uk.png"},
	})
	want := "bbc-one-uk.png|http://raw/bbc-one-uk.png\nitv-1-uk.png|http://raw/itv-1-uk.png\n"
	if got != want {
		t.Fatalf("Lines = %q, want %q", got, want)
	}
}
