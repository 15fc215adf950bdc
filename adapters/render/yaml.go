package render

import (
	"io"

	"gopkg.in/yaml.v3"

	"goskim/domain/summary"
)

// YAMLRenderer writes the result as an ordered YAML mapping
type YAMLRenderer struct{}

func (YAMLRenderer) Render(w io.Writer, r *summary.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
