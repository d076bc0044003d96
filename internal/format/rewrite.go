// internal/format/rewrite.go
//
// Web-server rewrite rules.
//
// Context
// -------
// Legacy Confluence links look like /pages/viewpage.action?pageId=<id>.
// For every mapping two rules are emitted: one for the bare query and one
// for the query followed by further parameters (`pageId=<id>&...`).  Both
// answer with a permanent redirect to https://<target><url> and drop the
// original query string.
//
// Notes
// -----
//   - nginx cannot match arguments in a rewrite pattern, so each rule is an
//     `if ($args ~ ...)` wrapping `rewrite ^ "<target>?" permanent;`.  The
//     trailing "?" stops nginx from appending the old arguments.
//   - mod_rewrite treats `%N` and `$N` in a substitution as back-references,
//     so both characters are backslash-escaped; NE keeps the already
//     percent-encoded URL from being encoded twice.
//   - Page ids and space keys are opaque, so an Apache argument holding
//     whitespace or a quote is wrapped in double quotes.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yanizio/pageidmap/internal/pagemap"
)

const legacyPath = "/pages/viewpage.action"

// NormalizeDomain strips a scheme and trailing slashes from d.
func NormalizeDomain(d string) string {
	d = strings.TrimSpace(d)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimRight(d, "/")
}

func target(domain, url string) string {
	return "https://" + NormalizeDomain(domain) + url
}

// idPatterns returns the exact and prefix query patterns for one page id.
func idPatterns(pageID string) (exact, prefix string) {
	q := "^pageId=" + regexp.QuoteMeta(pageID)
	return q + "$", q + "&"
}

func formatNginx(mappings []pagemap.Mapping, domain string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %d legacy page link(s) -> https://%s\n", len(mappings), NormalizeDomain(domain))
	fmt.Fprintf(&b, "location = %s {\n", legacyPath)
	for _, m := range mappings {
		exact, prefix := idPatterns(m.PageID)
		to := nginxQuote(target(domain, m.URL) + "?")
		for _, p := range []string{exact, prefix} {
			fmt.Fprintf(&b, "    if ($args ~ %s) { rewrite ^ %s permanent; }\n", nginxQuote(p), to)
		}
	}
	b.WriteString("}")
	return b.String()
}

func nginxQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func formatApache(mappings []pagemap.Mapping, domain string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %d legacy page link(s) -> https://%s\n", len(mappings), NormalizeDomain(domain))
	b.WriteString("RewriteEngine On")

	rulePath := "^/?" + regexp.QuoteMeta(strings.TrimPrefix(legacyPath, "/")) + "$"
	for _, m := range mappings {
		exact, prefix := idPatterns(m.PageID)
		to := apacheEscape(target(domain, m.URL))
		for _, p := range []string{exact, prefix} {
			fmt.Fprintf(&b, "\nRewriteCond %%{QUERY_STRING} %s\n", apacheArg(p))
			fmt.Fprintf(&b, "RewriteRule %s %s [R=301,L,NE,QSD]", rulePath, apacheArg(to))
		}
	}
	return b.String()
}

func apacheEscape(s string) string {
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `$`, `\$`)
}

// apacheArg quotes s when it would otherwise split into several
// directive arguments.  Inside quotes Apache only unescapes \".
func apacheArg(s string) string {
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
