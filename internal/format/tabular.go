package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"

	"github.com/yanizio/pageidmap/internal/pagemap"
)

func formatTSV(mappings []pagemap.Mapping) string {
	var b strings.Builder
	for i, m := range mappings {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.PageID)
		b.WriteByte('\t')
		b.WriteString(m.URL)
	}
	return b.String()
}

func formatCSV(mappings []pagemap.Mapping) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write([]string{"page_id", "url"}); err != nil {
		return "", err
	}
	for _, m := range mappings {
		if err := w.Write([]string{m.PageID, m.URL}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\r\n"), nil
}

// formatJSON leaves non-ASCII and <, >, & as-is; the output is read by
// people and config tooling, not embedded in HTML.
func formatJSON(mappings []pagemap.Mapping) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(mappings); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
