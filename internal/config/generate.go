package config

import (
	"gopkg.in/yaml.v3"
)

const sampleHeader = `# pageidmap configuration
#
# Precedence: flags > PAGEIDMAP_* environment > this file > built-in defaults.
# Environment keys use "__" for nesting, e.g. PAGEIDMAP_DATABASE__HOST.
#
# database.password may be left empty (prompted at run time) or point at
# Vault as "vault:<mount>/<path>#<key>".
# processing.output_format is one of tsv, csv, json, nginx, apache; the last
# two need processing.target_domain.

`

// Sample is the configuration written by --generate-config.
func Sample() Config {
	c := Default()
	c.Database.Port = 3306
	c.Database.Name = "confluence"
	c.Database.User = "confluence_user"
	c.Processing.DefaultSpaces = "INFO,DOCS"
	return c
}

// GenerateDefault renders Sample() as commented YAML.
func GenerateDefault() (string, error) {
	out, err := yaml.Marshal(Sample())
	if err != nil {
		return "", err
	}
	return sampleHeader + string(out), nil
}
