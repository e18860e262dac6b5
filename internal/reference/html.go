// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"html"
	"strings"

	"github.com/pdiddy/abnt-engine/pkg/types"
)

// HTML renders r with emphasized runs in <strong> and all text escaped.
func HTML(r types.FormattedReference) string {
	var b strings.Builder
	for _, s := range r {
		if s.Emphasized {
			b.WriteString("<strong>")
			b.WriteString(html.EscapeString(s.Text))
			b.WriteString("</strong>")
			continue
		}
		b.WriteString(html.EscapeString(s.Text))
	}
	return b.String()
}

// Parse splits a "**"-marked string, as produced by String, back into
// segments. An unbalanced trailing marker is kept as literal text.
func Parse(s string) types.FormattedReference {
	parts := strings.Split(s, "**")
	if len(parts)%2 == 0 {
		last := len(parts) - 1
		parts[last-1] += "**" + parts[last]
		parts = parts[:last]
	}
	var r types.FormattedReference
	for i, p := range parts {
		if p == "" {
			continue
		}
		r = append(r, types.Segment{Text: p, Emphasized: i%2 == 1})
	}
	return r
}
