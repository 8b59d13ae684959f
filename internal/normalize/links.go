package normalize

import (
	"regexp"
	"strings"
)

// urlPattern extracts bare URLs from a list cell that failed to parse.
var urlPattern = regexp.MustCompile(`https?://[^\s'"\]]+`)

// emptyLists are list cells that stand for "no links".
var emptyLists = map[string]bool{
	"[]":   true,
	"":     true,
	"nan":  true,
	"None": true,
	"null": true,
}

// LinkList parses a list-valued cell such as "['https://a', 'b']".
// A single quoted string yields one item. When the cell is not a valid
// literal, bare http(s) URLs are extracted instead. Blank items are dropped.
func LinkList(s string) []string {
	s = strings.TrimSpace(s)
	if emptyLists[s] {
		return []string{}
	}

	if items, err := parseLiteral(s); err == nil {
		out := make([]string, 0, len(items))
		for _, item := range items {
			if strings.TrimSpace(item) != "" {
				out = append(out, item)
			}
		}
		return out
	}

	urls := urlPattern.FindAllString(s, -1)
	if urls == nil {
		return []string{}
	}
	return urls
}

// EnsureHTTPS prefixes entries lacking an http:// or https:// scheme with
// https://. Entries are trimmed; the operation is idempotent.
func EnsureHTTPS(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			u = "https://" + u
		}
		out = append(out, u)
	}
	return out
}

// Links parses a list cell and normalizes its URLs.
func Links(s string) []string {
	return EnsureHTTPS(LinkList(s))
}
