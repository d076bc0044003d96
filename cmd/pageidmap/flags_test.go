package main

import (
	"path/filepath"
	"testing"

	"github.com/yanizio/pageidmap/internal/config"
)

func TestParseFlags_OnlySetFlagsOverride(t *testing.T) {
	fl, err := parseFlags([]string{"-d", "pg.internal/wiki", "--driver", "postgres", "-s", "kb,docs"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	c := config.Default()
	c.Processing.OutputFormat = "json" // from a lower layer
	if err := fl.apply(&c); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if c.Database.Driver != "postgres" || c.Database.Host != "pg.internal" || c.Database.Port != 5432 || c.Database.Name != "wiki" {
		t.Errorf("database = %+v", c.Database)
	}
	if c.Processing.DefaultSpaces != "kb,docs" {
		t.Errorf("spaces = %q", c.Processing.DefaultSpaces)
	}
	if c.Processing.OutputFormat != "json" {
		t.Errorf("unset --output-format overrode lower layer: %q", c.Processing.OutputFormat)
	}
}

func TestParseFlags_FileAndDatabaseExclusive(t *testing.T) {
	if _, err := parseFlags([]string{"-f", "a.tsv", "-d", "h/db"}); err == nil {
		t.Fatal("expected mutual-exclusion error")
	}
}

func TestParseFlags_BadDatabaseString(t *testing.T) {
	fl, err := parseFlags([]string{"-d", "localhost:3306"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	c := config.Default()
	if err := fl.apply(&c); err == nil {
		t.Fatal("expected error for database string without name")
	}
}

func TestParseFlags_Stray(t *testing.T) {
	if _, err := parseFlags([]string{"pages.tsv"}); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.tsv")

	cases := []struct {
		name string
		args []string
		want int
	}{
		{"no source", []string{"--silent"}, exitConfig},
		{"nginx without domain", []string{"--silent", "-f", missing, "--output-format", "nginx"}, exitConfig},
		{"unknown format", []string{"--silent", "-f", missing, "--output-format", "xml"}, exitConfig},
		{"missing file", []string{"--silent", "-f", missing}, exitFailure},
		{"help", []string{"--help"}, exitOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(tc.args); got != tc.want {
				t.Fatalf("run(%v) = %d, want %d", tc.args, got, tc.want)
			}
		})
	}
}
