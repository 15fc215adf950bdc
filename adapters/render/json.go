package render

import (
	"io"

	"github.com/goccy/go-json"

	"goskim/domain/summary"
)

// JSONRenderer writes the result as one JSON object keyed by section title
type JSONRenderer struct {
	Indent bool
}

func (j *JSONRenderer) Render(w io.Writer, r *summary.Result) error {
	var (
		b   []byte
		err error
	)
	if j.Indent {
		b, err = json.MarshalIndent(r, "", "  ")
	} else {
		b, err = json.Marshal(r)
	}
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
