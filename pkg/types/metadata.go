// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PageMetadata is the best-effort record extracted from a web page. Any
// field may be empty.
type PageMetadata struct {
	Title         string `json:"title" yaml:"title"`
	Author        string `json:"author" yaml:"author"`
	PublishedDate string `json:"publishedDate" yaml:"published_date"`
	Description   string `json:"description" yaml:"description"`
	SiteName      string `json:"siteName" yaml:"site_name"`
	URL           string `json:"url" yaml:"url"`
	AccessDate    string `json:"accessDate" yaml:"access_date"`
}
