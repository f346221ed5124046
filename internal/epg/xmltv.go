// SPDX-License-Identifier: MIT

// Package epg parses and rewrites XMLTV guide documents.
package epg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// 50MB guard against runaway guide files.
const maxXMLSize = 50 * 1024 * 1024

// TV is the root of an XMLTV document. Unknown attributes and non-channel
// elements (programmes in particular) are carried through untouched.
type TV struct {
	XMLName  xml.Name     `xml:"tv"`
	Attrs    []xml.Attr   `xml:",any,attr"`
	Channels []Channel    `xml:"channel"`
	Rest     []RawElement `xml:",any"`
}

// Channel is a single guide channel. The icon is the only child this tool
// rewrites; every other child element round-trips via Rest.
type Channel struct {
	ID          string        `xml:"id,attr"`
	Attrs       []xml.Attr    `xml:",any,attr"`
	DisplayName []DisplayName `xml:"display-name"`
	Icon        *Icon         `xml:"icon,omitempty"`
	Rest        []RawElement  `xml:",any"`
}

type DisplayName struct {
	Lang string `xml:"lang,attr,omitempty"`
	Text string `xml:",chardata"`
}

type Icon struct {
	Src   string     `xml:"src,attr"`
	Attrs []xml.Attr `xml:",any,attr"`
}

// RawElement preserves an element this tool does not interpret.
type RawElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

// entity matches a well-formed entity reference after an ampersand.
var entity = regexp.MustCompile(`^(?:[a-zA-Z][a-zA-Z0-9]*|#[0-9]+|#x[0-9a-fA-F]+);`)

// RepairAmpersands escapes bare ampersands so strict decoding does not choke
// on guide feeds that emit "Ant & Dec" unescaped. Comments and CDATA
// sections pass through verbatim; an ampersand there is already legal.
func RepairAmpersands(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	for i := 0; i < len(data); {
		if data[i] == '<' {
			if n := rawSpan(data[i:]); n > 0 {
				out.Write(data[i : i+n])
				i += n
				continue
			}
		}
		if data[i] != '&' {
			out.WriteByte(data[i])
			i++
			continue
		}
		if entity.Match(data[i+1:]) {
			out.WriteByte('&')
		} else {
			out.WriteString("&amp;")
		}
		i++
	}
	return out.Bytes()
}

// rawSpan reports the length of the comment or CDATA section starting at the
// beginning of data, or 0 when there is none. An unterminated section runs
// to the end of the input; the decoder rejects it later.
func rawSpan(data []byte) int {
	for _, m := range [][2]string{
		{"<!--", "-->"},
		{"<![CDATA[", "]]>"},
	} {
		open, term := []byte(m[0]), []byte(m[1])
		if !bytes.HasPrefix(data, open) {
			continue
		}
		end := bytes.Index(data[len(open):], term)
		if end < 0 {
			return len(data)
		}
		return len(open) + end + len(term)
	}
	return 0
}

// Parse decodes an XMLTV document. Entity expansion is disabled and input is
// size-limited.
func Parse(r io.Reader) (*TV, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxXMLSize))
	if err != nil {
		return nil, fmt.Errorf("read xmltv: %w", err)
	}
	data = RepairAmpersands(data)

	var doc TV
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.Entity = make(map[string]string)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode xmltv: %w", err)
	}
	return &doc, nil
}

// Name returns the channel's primary display name, falling back to its id.
func (c *Channel) Name() string {
	for _, dn := range c.DisplayName {
		if dn.Text != "" {
			return dn.Text
		}
	}
	return c.ID
}

// SetLogo replaces or inserts the channel's icon. The icon is rebuilt from
// scratch so stale width/height attributes from the previous logo do not
// survive.
func (c *Channel) SetLogo(url string) {
	c.Icon = &Icon{Src: url}
}

// Logo returns the channel's current icon URL, if any.
func (c *Channel) Logo() string {
	if c.Icon == nil {
		return ""
	}
	return c.Icon.Src
}

// WriteTo marshals the document with the XML declaration the downstream
// tooling expects.
func (tv *TV) WriteTo(w io.Writer) (int64, error) {
	out, err := xml.MarshalIndent(tv, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal xmltv: %w", err)
	}
	header := `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	n, err := io.Copy(w, bytes.NewReader(append([]byte(header), append(out, '\n')...)))
	if err != nil {
		return n, fmt.Errorf("write xmltv: %w", err)
	}
	return n, nil
}
