// Package render writes summary results as a console table, JSON or YAML.
package render

import (
	"strings"

	"goskim/domain/core"
	"goskim/ports"
)

// Formats lists the accepted output format names
var Formats = []string{"console", "json", "yaml"}

// ForFormat returns the renderer for a format name
func ForFormat(format string) (ports.Renderer, error) {
	switch strings.ToLower(format) {
	case "console", "":
		return NewConsoleRenderer(), nil
	case "json":
		return &JSONRenderer{Indent: true}, nil
	case "yaml", "yml":
		return &YAMLRenderer{}, nil
	}
	return nil, core.NewInvalidArgumentError("format", "must be one of "+strings.Join(Formats, ", "))
}
