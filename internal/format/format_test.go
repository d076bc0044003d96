package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/yanizio/pageidmap/internal/pagemap"
)

var sample = []pagemap.Mapping{
	{PageID: "65538", URL: "/wiki/search?text=Project%20%26%20Roadmap"},
	{PageID: "65539", URL: "/wiki/display/INFO/Caf%C3%A9+Notes"},
}

// assertText fails with a unified diff when got != want.
func assertText(t *testing.T, got, want string) {
	t.Helper()
	if got == want {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	t.Fatalf("output mismatch:\n%s", diff)
}

func render(t *testing.T, opts Options) string {
	t.Helper()
	out, err := Format(sample, opts)
	if err != nil {
		t.Fatalf("Format(%s): %v", opts.Format, err)
	}
	return out
}

func TestFormat_TSV(t *testing.T) {
	assertText(t, render(t, Options{Format: TSV}),
		"65538\t/wiki/search?text=Project%20%26%20Roadmap\n"+
			"65539\t/wiki/display/INFO/Caf%C3%A9+Notes")
}

func TestFormat_CSV(t *testing.T) {
	assertText(t, render(t, Options{Format: CSV}),
		"page_id,url\r\n"+
			"65538,/wiki/search?text=Project%20%26%20Roadmap\r\n"+
			"65539,/wiki/display/INFO/Caf%C3%A9+Notes")
}

func TestFormat_CSVQuoting(t *testing.T) {
	out, err := Format([]pagemap.Mapping{{PageID: `a,"b"`, URL: "/x"}}, Options{Format: CSV})
	if err != nil {
		t.Fatal(err)
	}
	assertText(t, out, "page_id,url\r\n\"a,\"\"b\"\"\",/x")
}

func TestFormat_JSON(t *testing.T) {
	assertText(t, render(t, Options{Format: JSON}), `[
  {
    "page_id": "65538",
    "url": "/wiki/search?text=Project%20%26%20Roadmap"
  },
  {
    "page_id": "65539",
    "url": "/wiki/display/INFO/Caf%C3%A9+Notes"
  }
]`)
}

func TestFormat_JSONUnescaped(t *testing.T) {
	out, err := Format([]pagemap.Mapping{{PageID: "é&1", URL: "/wiki/x"}}, Options{Format: JSON})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"page_id": "é&1"`) {
		t.Fatalf("expected unescaped page id, got:\n%s", out)
	}
}

func TestFormat_Nginx(t *testing.T) {
	out := render(t, Options{Format: Nginx, TargetDomain: "example.atlassian.net"})

	if n := strings.Count(out, "rewrite ^ "); n != 4 {
		t.Fatalf("want 4 rewrite directives, got %d:\n%s", n, out)
	}

	assertText(t, out, `# 2 legacy page link(s) -> https://example.atlassian.net
location = /pages/viewpage.action {
    if ($args ~ "^pageId=65538$") { rewrite ^ "https://example.atlassian.net/wiki/search?text=Project%20%26%20Roadmap?" permanent; }
    if ($args ~ "^pageId=65538&") { rewrite ^ "https://example.atlassian.net/wiki/search?text=Project%20%26%20Roadmap?" permanent; }
    if ($args ~ "^pageId=65539$") { rewrite ^ "https://example.atlassian.net/wiki/display/INFO/Caf%C3%A9+Notes?" permanent; }
    if ($args ~ "^pageId=65539&") { rewrite ^ "https://example.atlassian.net/wiki/display/INFO/Caf%C3%A9+Notes?" permanent; }
}`)
}

func TestFormat_Apache(t *testing.T) {
	out := render(t, Options{Format: Apache, TargetDomain: "https://example.atlassian.net/"})

	if n := strings.Count(out, "RewriteRule "); n != 4 {
		t.Fatalf("want 4 RewriteRule lines, got %d", n)
	}

	assertText(t, out, `# 2 legacy page link(s) -> https://example.atlassian.net
RewriteEngine On
RewriteCond %{QUERY_STRING} ^pageId=65538$
RewriteRule ^/?pages/viewpage\.action$ https://example.atlassian.net/wiki/search?text=Project\%20\%26\%20Roadmap [R=301,L,NE,QSD]
RewriteCond %{QUERY_STRING} ^pageId=65538&
RewriteRule ^/?pages/viewpage\.action$ https://example.atlassian.net/wiki/search?text=Project\%20\%26\%20Roadmap [R=301,L,NE,QSD]
RewriteCond %{QUERY_STRING} ^pageId=65539$
RewriteRule ^/?pages/viewpage\.action$ https://example.atlassian.net/wiki/display/INFO/Caf\%C3\%A9+Notes [R=301,L,NE,QSD]
RewriteCond %{QUERY_STRING} ^pageId=65539&
RewriteRule ^/?pages/viewpage\.action$ https://example.atlassian.net/wiki/display/INFO/Caf\%C3\%A9+Notes [R=301,L,NE,QSD]`)
}

func TestFormat_ApacheQuotesWhitespace(t *testing.T) {
	out, err := Format([]pagemap.Mapping{
		{PageID: "12 34", URL: "/wiki/display/MY SPACE/FAQ%3F"},
	}, Options{Format: Apache, TargetDomain: "example.org"})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	assertText(t, out, `# 1 legacy page link(s) -> https://example.org
RewriteEngine On
RewriteCond %{QUERY_STRING} "^pageId=12 34$"
RewriteRule ^/?pages/viewpage\.action$ "https://example.org/wiki/display/MY SPACE/FAQ\%3F" [R=301,L,NE,QSD]
RewriteCond %{QUERY_STRING} "^pageId=12 34&"
RewriteRule ^/?pages/viewpage\.action$ "https://example.org/wiki/display/MY SPACE/FAQ\%3F" [R=301,L,NE,QSD]`)
}

func TestApacheArg(t *testing.T) {
	cases := map[string]string{
		`^pageId=1$`: `^pageId=1$`,
		`a b`:        `"a b"`,
		"a\tb":       "\"a\tb\"",
		`say "hi"`:   `"say \"hi\""`,
	}
	for in, want := range cases {
		if got := apacheArg(in); got != want {
			t.Errorf("apacheArg(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormat_Errors(t *testing.T) {
	cases := []struct {
		name     string
		mappings []pagemap.Mapping
		opts     Options
		want     error
	}{
		{"empty", nil, Options{Format: TSV}, ErrNoMappings},
		{"nginx no domain", sample, Options{Format: Nginx}, ErrTargetDomainRequired},
		{"apache blank domain", sample, Options{Format: Apache, TargetDomain: "  "}, ErrTargetDomainRequired},
		{"unknown", sample, Options{Format: "xml"}, ErrUnknownFormat},
		{"config error wins over empty", nil, Options{Format: Nginx}, ErrTargetDomainRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Format(tc.mappings, tc.opts)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"tsv", "CSV", " json ", "nginx", "Apache"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("yaml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("ParseFormat(yaml) err = %v", err)
	}
}

func TestNormalizeDomain(t *testing.T) {
	cases := map[string]string{
		"example.atlassian.net":          "example.atlassian.net",
		"https://example.atlassian.net/": "example.atlassian.net",
		" http://wiki.example.com// ":    "wiki.example.com",
	}
	for in, want := range cases {
		if got := NormalizeDomain(in); got != want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", in, got, want)
		}
	}
}
