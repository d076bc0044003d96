package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/yanizio/pageidmap/internal/database"
)

// ParseDatabaseString reads "host[:port]/database" into d, keeping d's
// driver.  A missing port falls back to the driver default.
func ParseDatabaseString(s string, d *Database) error {
	hostPort, name, ok := cut(s)
	if !ok || name == "" {
		return fmt.Errorf("%w: database string %q must look like HOST[:PORT]/DATABASE", ErrInvalid, s)
	}

	host, port := hostPort, database.DefaultPort(d.Driver)
	if strings.Contains(hostPort, ":") {
		h, p, err := net.SplitHostPort(hostPort)
		if err != nil {
			return fmt.Errorf("%w: database string %q: %v", ErrInvalid, s, err)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("%w: database string %q: bad port %q", ErrInvalid, s, p)
		}
		host, port = h, n
	}
	if host == "" {
		return fmt.Errorf("%w: database string %q has no host", ErrInvalid, s)
	}

	d.Host, d.Port, d.Name = host, port, name
	return nil
}

// cut splits at the last "/".
func cut(s string) (before, after string, ok bool) {
	i := strings.LastIndex(s, "/")
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}
