package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/yanizio/pageidmap/internal/config"
	"github.com/yanizio/pageidmap/internal/format"
)

const usageExamples = `
Examples:
  pageidmap -f pages.txt --output-format json
  pageidmap -d localhost:3306/confluence -s INFO,DOCS
  pageidmap -c pageidmap.yaml --silent --output-format csv
  pageidmap -f pages.txt --output-format nginx --target-domain example.atlassian.net
  pageidmap --generate-config > pageidmap.yaml
`

// flags holds parsed command-line values.  Only flags the user actually
// set override lower configuration layers.
type flags struct {
	fs *pflag.FlagSet

	file            string
	database        string
	driver          string
	configPath      string
	generateConfig  bool
	spaces          string
	outputFormat    string
	targetDomain    string
	output          string
	silent          bool
	verbose         bool
	logFile         string
	metricsTextfile string
	version         bool
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{fs: pflag.NewFlagSet("pageidmap", pflag.ContinueOnError)}
	fs := f.fs

	fs.StringVarP(&f.file, "file", "f", "", "input file with tab-separated page data (- for stdin)")
	fs.StringVarP(&f.database, "database", "d", "", "database as HOST[:PORT]/DATABASE")
	fs.StringVar(&f.driver, "driver", "mysql", "database driver: mysql or postgres")
	fs.StringVarP(&f.configPath, "config", "c", "", "configuration file path (YAML)")
	fs.BoolVarP(&f.generateConfig, "generate-config", "g", false, "print a sample configuration file and exit")
	fs.StringVarP(&f.spaces, "spaces", "s", "INFO", "space keys to export, comma-separated")
	fs.StringVar(&f.outputFormat, "output-format", "tsv", "output format: "+formatList())
	fs.StringVar(&f.targetDomain, "target-domain", "", "redirect host for nginx and apache output")
	fs.StringVarP(&f.output, "output", "o", "", "write output to this file instead of stdout")
	fs.BoolVar(&f.silent, "silent", false, "no diagnostics on stderr")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose diagnostics on stderr")
	fs.StringVar(&f.logFile, "log-file", "", "also write JSON logs to this file")
	fs.StringVar(&f.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after a successful run")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Convert Confluence page data to URL mappings.\n\nUsage:\n  pageidmap [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprint(os.Stderr, usageExamples)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if f.file != "" && f.database != "" {
		return nil, errors.New("--file and --database are mutually exclusive")
	}
	return f, nil
}

func formatList() string {
	names := make([]string, 0, len(format.Formats()))
	for _, n := range format.Formats() {
		names = append(names, string(n))
	}
	return strings.Join(names, ", ")
}

// apply copies every flag the user set onto c.
func (f *flags) apply(c *config.Config) error {
	set := f.fs.Changed

	if set("driver") {
		c.Database.Driver = strings.ToLower(f.driver)
	}
	if set("database") {
		if err := config.ParseDatabaseString(f.database, &c.Database); err != nil {
			return err
		}
		c.Input.File = ""
	}
	if set("file") {
		c.Input.File = f.file
	}
	if set("spaces") {
		c.Processing.DefaultSpaces = f.spaces
	}
	if set("output-format") {
		c.Processing.OutputFormat = f.outputFormat
	}
	if set("target-domain") {
		c.Processing.TargetDomain = f.targetDomain
	}
	if set("output") {
		c.Output.Path = f.output
	}
	if set("silent") {
		c.Processing.Silent = f.silent
	}
	if set("verbose") {
		c.Processing.Verbose = f.verbose
	}
	if set("log-file") {
		c.Log.File = f.logFile
	}
	if set("metrics-textfile") {
		c.Metrics.Textfile = f.metricsTextfile
	}
	return nil
}
