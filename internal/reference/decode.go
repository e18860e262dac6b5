// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/abnt-engine/pkg/types"
)

// Decode converts a loosely typed field bag, as received from JSON or
// YAML, into the variant record for sourceType. Numeric values are
// accepted wherever a string is expected. Unrecognized source types yield
// OtherFields carrying data["text"].
func Decode(sourceType string, data map[string]any) types.ReferenceFields {
	get := func(keys ...string) string {
		for _, k := range keys {
			if s := stringValue(data[k]); s != "" {
				return s
			}
		}
		return ""
	}

	st, _ := types.ParseSourceType(sourceType)
	switch st {
	case types.SourceBook:
		return types.BookFields{
			Author:    get("author"),
			Title:     get("title"),
			Subtitle:  get("subtitle"),
			Edition:   get("edition"),
			City:      get("city"),
			Publisher: get("publisher"),
			Year:      get("year"),
		}
	case types.SourceArticle:
		return types.ArticleFields{
			Author:  get("author"),
			Title:   get("title"),
			Journal: get("journal"),
			City:    get("city"),
			Volume:  get("volume"),
			Number:  get("number"),
			Pages:   get("pages"),
			Month:   get("month"),
			Year:    get("year"),
		}
	case types.SourceWebsite:
		return types.WebsiteFields{
			Author:     get("author"),
			Title:      get("title"),
			SiteName:   get("siteName", "site_name"),
			Year:       get("year"),
			URL:        get("url"),
			AccessDate: get("accessDate", "access_date"),
		}
	case types.SourceThesis:
		return types.ThesisFields{
			Author:      get("author"),
			Title:       get("title"),
			Year:        get("year"),
			Pages:       get("pages"),
			ThesisType:  get("thesisType", "thesis_type", "type"),
			Degree:      get("degree"),
			Institution: get("institution"),
			City:        get("city"),
		}
	}
	return types.OtherFields{Tag: sourceType, Text: get("text")}
}

// stringValue renders scalar JSON/YAML values as text and trims
// surrounding whitespace. Other kinds yield "".
func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case fmt.Stringer:
		return strings.TrimSpace(x.String())
	}
	return ""
}
