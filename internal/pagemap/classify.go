// internal/pagemap/classify.go
//
// Title classification.
//
// Context
// -------
// Confluence Cloud cannot route a legacy page title that carries its own
// delimiters or non-ASCII bytes.  Two fallback URL shapes exist on the
// target, and this file decides which one a title needs:
//
//   - SearchURL  - title holds a character that breaks the display form
//     outright (`&`, `/`, `+`, `%`).
//   - DisplayURL - title holds a reserved delimiter (`?`, `\`, `;`, `#`,
//     `§`, `:`), ends in ASCII punctuation or whitespace, or holds any
//     non-ASCII code point.
//   - NoRewrite  - everything else, including the empty title.
//
// The search test always runs first and wins when both match.
package pagemap

import "regexp"

// Disposition is the URL shape a title needs after migration.
type Disposition int

const (
	NoRewrite Disposition = iota
	SearchURL
	DisplayURL
)

func (d Disposition) String() string {
	switch d {
	case SearchURL:
		return "search"
	case DisplayURL:
		return "display"
	default:
		return "none"
	}
}

// Compiled once; read-only afterwards.
var (
	searchPattern  = regexp.MustCompile(`[&/+%]`)
	displayPattern = regexp.MustCompile(`[?\\;#§:]|[^a-zA-Z0-9]$|[^\x00-\x7f]`)
)

// NeedsSearch reports whether title contains a search-only character.
func NeedsSearch(title string) bool { return searchPattern.MatchString(title) }

// NeedsDisplay reports whether title needs the display URL form.
func NeedsDisplay(title string) bool { return displayPattern.MatchString(title) }

// Classify returns the disposition for title.  It never fails.
func Classify(title string) Disposition {
	switch {
	case NeedsSearch(title):
		return SearchURL
	case NeedsDisplay(title):
		return DisplayURL
	default:
		return NoRewrite
	}
}
