package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yanizio/pageidmap/internal/pagemap"
)

func TestObserveAndWrite(t *testing.T) {
	Observe(pagemap.Stats{Records: 5, Search: 2, Display: 1, Skipped: 2}, 1, 1500*time.Millisecond)

	if got := testutil.ToFloat64(RecordsTotal); got != 5 {
		t.Errorf("records = %v, want 5", got)
	}
	if got := testutil.ToFloat64(MappingsTotal.WithLabelValues("search")); got != 2 {
		t.Errorf("search = %v, want 2", got)
	}
	if got := testutil.ToFloat64(MappingsTotal.WithLabelValues("none")); got != 2 {
		t.Errorf("none = %v, want 2", got)
	}
	if got := testutil.ToFloat64(MalformedTotal); got != 1 {
		t.Errorf("malformed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(RunDuration); got != 1.5 {
		t.Errorf("duration = %v, want 1.5", got)
	}

	path := filepath.Join(t.TempDir(), "pageidmap.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"pageidmap_records_total 5",
		`pageidmap_mappings_total{disposition="display"} 1`,
		"pageidmap_last_success_timestamp_seconds",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
	if strings.Contains(string(data), "go_goroutines") {
		t.Error("textfile should not carry runtime metrics")
	}
}
