// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationFields holds the inputs for an in-text citation. A citation is
// only produced when both Author and Year are non-empty.
type CitationFields struct {
	// Author is the free-text author name (e.g. "João Silva").
	Author string `json:"author" yaml:"author"`

	// Year is the publication year.
	Year string `json:"year" yaml:"year"`

	// Page is the optional page or page range.
	Page string `json:"page,omitempty" yaml:"page,omitempty"`

	// Quote is the optional quoted passage.
	Quote string `json:"quote,omitempty" yaml:"quote,omitempty"`
}
