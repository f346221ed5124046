// SPDX-License-Identifier: MIT

package epg

import (
	"fmt"

	"github.com/Booza1981/iptv-stack/internal/match"
)

// ChannelViews exposes the guide's channels as matcher input. The document
// owns the channel records; the matcher only reads them.
func (tv *TV) ChannelViews() []match.Channel {
	out := make([]match.Channel, 0, len(tv.Channels))
	for i := range tv.Channels {
		ch := &tv.Channels[i]
		out = append(out, match.Channel{ID: ch.ID, Name: ch.Name(), Logo: ch.Logo()})
	}
	return out
}

// Apply writes each matched decision's URL into the channel at the same
// index. The decision slice must be parallel to Channels, the order
// ChannelViews and DecideAll produce; positional application keeps channels
// with duplicate or empty ids from picking up each other's logos. Channels
// with a none decision keep whatever logo reference they already had.
func (tv *TV) Apply(decisions []match.Decision) error {
	if len(decisions) != len(tv.Channels) {
		return fmt.Errorf("decision count %d does not match channel count %d", len(decisions), len(tv.Channels))
	}
	for i, d := range decisions {
		if !d.Matched() {
			continue
		}
		tv.Channels[i].SetLogo(d.URL)
	}
	return nil
}
