// internal/format/format.go
//
// Output formatting for accumulated URL mappings.
//
// Context
// -------
// The pipeline hands over the final ordered slice of mappings once the
// whole source has been read.  Format renders it into one text block in
// one of five shapes:
//
//	tsv     page_id<TAB>url per line
//	csv     header + rows, RFC 4180 quoting, CRLF line ends
//	json    array of {"page_id","url"}, two-space indent, no escaping
//	nginx   location block with two rewrite directives per mapping
//	apache  mod_rewrite rules, two condition/rule pairs per mapping
//
// The returned block never ends in a line terminator; the caller decides
// how to terminate it.  An empty slice is reported as ErrNoMappings rather
// than rendered as an empty success.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yanizio/pageidmap/internal/pagemap"
)

// Name identifies an output format.
type Name string

const (
	TSV    Name = "tsv"
	CSV    Name = "csv"
	JSON   Name = "json"
	Nginx  Name = "nginx"
	Apache Name = "apache"
)

var (
	ErrNoMappings           = errors.New("no URL mappings generated")
	ErrUnknownFormat        = errors.New("unknown output format")
	ErrTargetDomainRequired = errors.New("target domain is required for rewrite-rule formats")
)

// Formats lists every supported format in display order.
func Formats() []Name { return []Name{TSV, CSV, JSON, Nginx, Apache} }

// ParseFormat maps a user-supplied name to a Name.
func ParseFormat(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range Formats() {
		if n == f {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// NeedsTargetDomain reports whether n renders absolute redirect targets.
func (n Name) NeedsTargetDomain() bool { return n == Nginx || n == Apache }

// Options selects and parameterises the output.
type Options struct {
	Format       Name
	TargetDomain string
}

// Check validates opts without rendering anything, so configuration
// errors surface before any record is read.
func (o Options) Check() error {
	name, err := ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	if name.NeedsTargetDomain() && strings.TrimSpace(o.TargetDomain) == "" {
		return fmt.Errorf("%w (format %s)", ErrTargetDomainRequired, name)
	}
	return nil
}

// Format renders mappings per opts.
func Format(mappings []pagemap.Mapping, opts Options) (string, error) {
	if err := opts.Check(); err != nil {
		return "", err
	}
	if len(mappings) == 0 {
		return "", ErrNoMappings
	}

	name, _ := ParseFormat(string(opts.Format))
	switch name {
	case TSV:
		return formatTSV(mappings), nil
	case CSV:
		return formatCSV(mappings)
	case JSON:
		return formatJSON(mappings)
	case Nginx:
		return formatNginx(mappings, opts.TargetDomain), nil
	case Apache:
		return formatApache(mappings, opts.TargetDomain), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, opts.Format)
}
