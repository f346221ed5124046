// SPDX-License-Identifier: MIT

// Package report renders match outcomes as plain-text reports.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Booza1981/iptv-stack/internal/match"
)

// Build aggregates decisions into the matched and unmatched reports. Both are
// sorted by channel identifier so consecutive runs over the same input are
// diffable.
func Build(decisions []match.Decision) (matched, unmatched string) {
	sorted := make([]match.Decision, len(decisions))
	copy(sorted, decisions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ChannelID != sorted[j].ChannelID {
			return sorted[i].ChannelID < sorted[j].ChannelID
		}
		return sorted[i].Name < sorted[j].Name
	})

	var m, u strings.Builder
	m.WriteString("Channel ID | Display Name | Matched Logo | Method\n")
	m.WriteString(strings.Repeat("-", 70) + "\n")
	u.WriteString("Channel ID | Display Name\n")
	u.WriteString(strings.Repeat("-", 40) + "\n")

	for _, d := range sorted {
		if d.Matched() {
			fmt.Fprintf(&m, "%s | %s | %s | %s\n", orNA(d.ChannelID), orNA(d.Name), orNA(d.URL), d.Method)
		} else {
			fmt.Fprintf(&u, "%s | %s\n", orNA(d.ChannelID), orNA(d.Name))
		}
	}
	return m.String(), u.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// WriteFiles writes both reports into dir, named after the document kind
// ("xml" or "m3u"). Prior reports with the same names are replaced.
func WriteFiles(dir, kind string, decisions []match.Decision) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	matched, unmatched := Build(decisions)

	matchedPath := filepath.Join(dir, "logo_matching_report_"+kind+".txt")
	if err := os.WriteFile(matchedPath, []byte(matched), 0o644); err != nil {
		return fmt.Errorf("write matched report: %w", err)
	}
	unmatchedPath := filepath.Join(dir, "unmatched_channels_"+kind+".txt")
	if err := os.WriteFile(unmatchedPath, []byte(unmatched), 0o644); err != nil {
		return fmt.Errorf("write unmatched report: %w", err)
	}
	return nil
}
