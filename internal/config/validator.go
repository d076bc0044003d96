// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` once all layers are merged.  Any error
// aborts the run before a file is opened or a connection is made, so a bad
// format name or a missing target domain never costs a database scan.
//
// Field tags cover enums and ranges.  The one cross-field rule, that the
// rewrite-rule formats need a target domain, is a struct-level check.
package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/yanizio/pageidmap/internal/format"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterStructValidation(processingRules, Processing{})
	return val
}

func processingRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(Processing)
	if format.Name(p.OutputFormat).NeedsTargetDomain() && p.TargetDomain == "" {
		sl.ReportError(p.TargetDomain, "TargetDomain", "target_domain", "required_for_format", p.OutputFormat)
	}
}

// validateStruct returns the validation errors, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
