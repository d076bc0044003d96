// internal/source/file.go
//
// Tab-separated file source.
//
// Context
// -------
// Each non-blank line is `page_id<TAB>space_key<TAB>title`.  The line is
// stripped of surrounding whitespace before splitting, every field is
// trimmed, and anything past the third field is ignored.  A line with
// fewer than three fields is logged as a warning and skipped; it never
// aborts the run.  A path of "-" reads stdin.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/pageidmap/internal/pagemap"
)

// ErrOpen wraps failures to open or read the input file.
var ErrOpen = errors.New("cannot read input file")

// File reads page records from a TSV file.
type File struct {
	Path string
	Log  *zap.SugaredLogger

	stdin     io.Reader
	malformed int
}

// NewFile returns a File source.  log may be nil.
func NewFile(path string, log *zap.SugaredLogger) *File {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &File{Path: path, Log: log, stdin: os.Stdin}
}

// Malformed reports how many lines were skipped as unparsable.
func (f *File) Malformed() int { return f.malformed }

// Each implements pagemap.RecordSource.
func (f *File) Each(ctx context.Context, fn func(pagemap.PageRecord) error) error {
	var r io.Reader
	if f.Path == "-" {
		r = f.stdin
	} else {
		fh, err := os.Open(f.Path)
		if err != nil {
			return fmt.Errorf("%w %q: %v", ErrOpen, f.Path, err)
		}
		defer fh.Close()
		r = fh
	}
	f.Log.Debugw("reading input", "file", f.Path)

	// No line length limit: a huge line is still a record or a bad line.
	br := bufio.NewReader(r)

	lineNum := 0
	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("%w %q: %v", ErrOpen, f.Path, readErr)
		}
		if readErr != nil && line == "" {
			return nil
		}
		lineNum++
		if err := ctx.Err(); err != nil {
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, ok := ParseLine(line)
		if !ok {
			f.malformed++
			f.Log.Warnw("invalid line", "line", lineNum, "text", strings.TrimSpace(line))
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// ParseLine splits one TSV line into a record.  ok is false when the line
// has fewer than three fields.
func ParseLine(line string) (rec pagemap.PageRecord, ok bool) {
	parts := strings.Split(strings.TrimSpace(line), "\t")
	if len(parts) < 3 {
		return pagemap.PageRecord{}, false
	}
	return pagemap.PageRecord{
		PageID:   strings.TrimSpace(parts[0]),
		SpaceKey: strings.TrimSpace(parts[1]),
		Title:    strings.TrimSpace(parts[2]),
	}, true
}
