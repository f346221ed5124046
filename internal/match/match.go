// SPDX-License-Identifier: MIT

// Package match decides the winning logo URL for each channel.
package match

import (
	"github.com/Booza1981/iptv-stack/internal/catalog"
	"github.com/Booza1981/iptv-stack/internal/normalize"
	"github.com/Booza1981/iptv-stack/internal/overrides"
)

// Method tags how a decision was reached.
type Method string

const (
	// MethodOverride means a manual fix for the channel id won.
	MethodOverride Method = "override"
	// MethodExact means the catalog resolved the normalized display name,
	// either by exact key or by substring containment.
	MethodExact Method = "exact"
	// MethodNone means no logo could be resolved.
	MethodNone Method = "none"
)

// Channel is the matcher's read-only view of a document record.
type Channel struct {
	ID   string
	Name string
	Logo string // existing logo reference, may be empty
}

// Decision is the outcome for a single channel. Produced exactly once per
// channel per run.
type Decision struct {
	ChannelID string
	Name      string
	URL       string
	Method    Method
}

// Matched reports whether the decision carries a resolved URL.
func (d Decision) Matched() bool { return d.Method != MethodNone }

// Matcher resolves channels against an override table and a logo catalog.
// Both are read-only after construction, so a Matcher is safe for concurrent
// use.
type Matcher struct {
	catalog *catalog.Catalog
	fixes   *overrides.Table
}

// New builds a Matcher over the given catalog and override table.
func New(cat *catalog.Catalog, fixes *overrides.Table) *Matcher {
	return &Matcher{catalog: cat, fixes: fixes}
}

// Decide resolves a single channel. Priority is strict: an override for the
// channel id always wins, then a catalog hit on the normalized display name,
// otherwise none. Decide has no side effects and no cross-channel state.
func (m *Matcher) Decide(ch Channel) Decision {
	d := Decision{ChannelID: ch.ID, Name: ch.Name, Method: MethodNone}

	if url, ok := m.fixes.Lookup(ch.ID); ok {
		d.URL = url
		d.Method = MethodOverride
		return d
	}

	if e, ok := m.catalog.Lookup(normalize.Key(ch.Name)); ok {
		d.URL = e.URL
		d.Method = MethodExact
		return d
	}

	return d
}

// DecideAll resolves every channel in order.
func (m *Matcher) DecideAll(channels []Channel) []Decision {
	out := make([]Decision, 0, len(channels))
	for _, ch := range channels {
		out = append(out, m.Decide(ch))
	}
	return out
}
