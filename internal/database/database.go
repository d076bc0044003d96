// Package database centralises sqlx connection helpers for the Confluence
// database.  Two drivers are registered: go-sql-driver/mysql (MySQL and
// MariaDB) and lib/pq (PostgreSQL).
//
// Public entry points:
//
//	DSN(settings)                 - driver-specific connection string.
//	Open(ctx, driver, dsn)        - pool with conservative sizes.
//
// Open pings the database before returning so callers fail fast before any
// record is read.  Callers should Close() the returned *sqlx.DB.
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Supported driver names, as registered with database/sql.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
)

// DefaultPort returns the conventional port for driver, or 0.
func DefaultPort(driver string) int {
	switch driver {
	case MySQL:
		return 3306
	case Postgres:
		return 5432
	}
	return 0
}

// Settings is everything needed to reach one database.
type Settings struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	Params   map[string]string
}

// Addr is host:port, with the driver default when Port is zero.
func (s Settings) Addr() string {
	port := s.Port
	if port == 0 {
		port = DefaultPort(s.Driver)
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(port))
}

// DSN renders s for its driver.  MySQL connections default to utf8mb4 so
// titles survive the round trip byte for byte.
func DSN(s Settings) (string, error) {
	switch s.Driver {
	case MySQL:
		cfg := mysql.NewConfig()
		cfg.User = s.User
		cfg.Passwd = s.Password
		cfg.Net = "tcp"
		cfg.Addr = s.Addr()
		cfg.DBName = s.Name
		cfg.Collation = "utf8mb4_unicode_ci"
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		for k, v := range s.Params {
			cfg.Params[k] = v
		}
		return cfg.FormatDSN(), nil

	case Postgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   s.Addr(),
			Path:   "/" + s.Name,
		}
		if s.User != "" {
			u.User = url.UserPassword(s.User, s.Password)
		}
		if len(s.Params) > 0 {
			q := url.Values{}
			keys := make([]string, 0, len(s.Params))
			for k := range s.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				q.Set(k, s.Params[k])
			}
			u.RawQuery = q.Encode()
		}
		return u.String(), nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s.Driver)
}

// Open returns a *sqlx.DB for driver with small pool sizes and a
// 30-minute connection lifetime.  A batch export needs one connection.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
