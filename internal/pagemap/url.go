// internal/pagemap/url.go
//
// URL construction for the two rewrite shapes.
//
//	SearchURL  -> /wiki/search?text=<encoded title>
//	DisplayURL -> /wiki/display/<space>/<encoded title, spaces as "+">
//
// Encoding keeps the unreserved set (A-Z a-z 0-9 - . _ ~) plus "/" and
// percent-encodes every other UTF-8 byte with upper-case hex.  Spaces are
// "%20" in the search form.  In the display form each space becomes a
// literal "+" that is not encoded again.
package pagemap

import (
	"net/url"
	"strings"
)

const (
	searchPrefix  = "/wiki/search?text="
	displayPrefix = "/wiki/display/"
)

// BuildURL returns the root-relative path for d.  NoRewrite yields "".
func BuildURL(d Disposition, spaceKey, title string) string {
	switch d {
	case SearchURL:
		return searchPrefix + escape(title)
	case DisplayURL:
		parts := strings.Split(title, " ")
		for i, p := range parts {
			parts[i] = escape(p)
		}
		return displayPrefix + spaceKey + "/" + strings.Join(parts, "+")
	default:
		return ""
	}
}

// escape percent-encodes s.  QueryEscape already encodes a literal "+" as
// %2B, so every "+" left in its output stands for a space.
func escape(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "+", "%20")
	return strings.ReplaceAll(e, "%2F", "/")
}
