// internal/pagemap/pipeline.go
//
// Pipeline driver.
//
// Context
// -------
// Run pulls records from a RecordSource one at a time, classifies each
// title, and appends a Mapping for every record that needs a rewrite.
// Output order mirrors input order; NoRewrite records leave a gap and
// nothing else.  There is no sorting, merging, or deduplication.
//
// A source error or a cancelled context aborts the run and the
// accumulated mappings are dropped, so callers never format a partial
// result.
package pagemap

import "context"

// PageRecord is one (page id, space key, title) triple from a source.
type PageRecord struct {
	PageID   string
	SpaceKey string
	Title    string
}

// Mapping pairs a page id with its rewritten root-relative URL.
type Mapping struct {
	PageID string `json:"page_id"`
	URL    string `json:"url"`
}

// Stats summarises one run.
type Stats struct {
	Records int // records seen
	Search  int // mapped to the search form
	Display int // mapped to the display form
	Skipped int // NoRewrite
}

// Mapped is the number of mappings produced.
func (s Stats) Mapped() int { return s.Search + s.Display }

// RecordSource yields page records in source order.  Each stops at the
// first error returned by fn or encountered while reading.
type RecordSource interface {
	Each(ctx context.Context, fn func(PageRecord) error) error
}

// Process makes the per-record decision.  ok is false for NoRewrite.
func Process(rec PageRecord) (m Mapping, d Disposition, ok bool) {
	d = Classify(rec.Title)
	if d == NoRewrite {
		return Mapping{}, d, false
	}
	return Mapping{PageID: rec.PageID, URL: BuildURL(d, rec.SpaceKey, rec.Title)}, d, true
}

// Run drives src to completion and returns the ordered mappings.
func Run(ctx context.Context, src RecordSource) ([]Mapping, Stats, error) {
	var (
		out   []Mapping
		stats Stats
	)

	err := src.Each(ctx, func(rec PageRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Records++

		m, d, ok := Process(rec)
		switch d {
		case SearchURL:
			stats.Search++
		case DisplayURL:
			stats.Display++
		default:
			stats.Skipped++
		}
		if ok {
			out = append(out, m)
		}
		return nil
	})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, stats, err
	}
	return out, stats, nil
}
