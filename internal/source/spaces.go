package source

import "strings"

// ParseSpaceKeys splits a comma-separated list into upper-case keys,
// dropping blanks.  "info, docs,," -> [INFO DOCS].
func ParseSpaceKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, strings.ToUpper(k))
		}
	}
	return keys
}
