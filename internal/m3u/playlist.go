// SPDX-License-Identifier: MIT

// Package m3u parses and rewrites M3U playlists. The playlist keeps every
// source line verbatim; rewriting touches nothing but the tvg-logo attribute
// of entries that received a logo.
package m3u

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Booza1981/iptv-stack/internal/match"
)

var (
	tvgIDAttr   = regexp.MustCompile(`(?i)tvg-id="([^"]*)"`)
	tvgNameAttr = regexp.MustCompile(`(?i)tvg-name="([^"]*)"`)
	tvgLogoAttr = regexp.MustCompile(`(?i)tvg-logo="([^"]*)"`)
)

// Entry is a single #EXTINF record and the line it came from.
type Entry struct {
	Line  int // index into the playlist's line slice
	TvgID string
	Name  string
	Logo  string
}

// Playlist is a parsed M3U document. Lines are stored exactly as read.
type Playlist struct {
	lines   []string
	entries []Entry
}

// Parse scans M3U content. Lines that are not #EXTINF records pass through
// untouched, including comments, #EXTGRP directives and stream URLs.
func Parse(content string) *Playlist {
	p := &Playlist{lines: strings.Split(content, "\n")}
	for i, line := range p.lines {
		trimmed := strings.TrimRight(line, "\r")
		if !strings.HasPrefix(strings.TrimSpace(trimmed), "#EXTINF:") {
			continue
		}
		e := Entry{Line: i}
		if m := tvgIDAttr.FindStringSubmatch(trimmed); m != nil {
			e.TvgID = m[1]
		}
		if m := tvgLogoAttr.FindStringSubmatch(trimmed); m != nil {
			e.Logo = m[1]
		}
		if m := tvgNameAttr.FindStringSubmatch(trimmed); m != nil {
			e.Name = m[1]
		} else if idx := displayNameComma(trimmed); idx != -1 {
			e.Name = strings.TrimSpace(trimmed[idx+1:])
		}
		if e.Name == "" {
			e.Name = e.TvgID
		}
		p.entries = append(p.entries, e)
	}
	return p
}

// Entries returns the parsed records in playlist order.
func (p *Playlist) Entries() []Entry { return p.entries }

// ChannelViews exposes the playlist entries as matcher input, in the same
// order as Entries.
func (p *Playlist) ChannelViews() []match.Channel {
	out := make([]match.Channel, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, match.Channel{ID: e.TvgID, Name: e.Name, Logo: e.Logo})
	}
	return out
}

// Apply rewrites the tvg-logo attribute for every matched decision. The
// decision slice must be parallel to Entries, the order DecideAll produces.
// Entries with a none decision keep their line byte-identical.
func (p *Playlist) Apply(decisions []match.Decision) error {
	if len(decisions) != len(p.entries) {
		return fmt.Errorf("decision count %d does not match entry count %d", len(decisions), len(p.entries))
	}
	for i, d := range decisions {
		if !d.Matched() {
			continue
		}
		e := p.entries[i]
		p.lines[e.Line] = setLogo(p.lines[e.Line], d.URL)
		p.entries[i].Logo = d.URL
	}
	return nil
}

// setLogo replaces the tvg-logo attribute in an EXTINF line, inserting one
// if the line never had it. A trailing carriage return survives untouched.
func setLogo(line, url string) string {
	cr := ""
	if strings.HasSuffix(line, "\r") {
		cr = "\r"
		line = strings.TrimSuffix(line, "\r")
	}

	attr := `tvg-logo="` + url + `"`
	switch {
	case tvgLogoAttr.MatchString(line):
		line = tvgLogoAttr.ReplaceAllLiteralString(line, attr)
	case tvgNameAttr.MatchString(line):
		loc := tvgNameAttr.FindStringIndex(line)
		line = line[:loc[1]] + " " + attr + line[loc[1]:]
	default:
		if idx := displayNameComma(line); idx != -1 {
			line = line[:idx] + " " + attr + line[idx:]
		} else {
			line = line + " " + attr
		}
	}
	return line + cr
}

// displayNameComma locates the comma separating the attribute block from the
// display name. Commas inside quoted attribute values and inside the display
// name itself do not count; only the first comma outside quotes does, so a
// name like "Dave, The UK" stays whole.
func displayNameComma(line string) int {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				return i
			}
		}
	}
	return -1
}

// WriteTo emits the playlist. Untouched lines round-trip byte for byte.
func (p *Playlist) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, strings.Join(p.lines, "\n"))
	if err != nil {
		return int64(n), fmt.Errorf("write playlist: %w", err)
	}
	return int64(n), nil
}
