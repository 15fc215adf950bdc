package ports

import (
	"context"
	"io"

	"goskim/domain/frame"
	"goskim/domain/summary"
)

// DatasetSource loads a dataset from some backing store (file, database, arrow record)
type DatasetSource interface {
	Load(ctx context.Context) (*frame.Dataset, error)
}

// Renderer writes a summary Result in one output format
type Renderer interface {
	Render(w io.Writer, r *summary.Result) error
}

// Skimmer summarizes datasets; implemented by app.SkimService
type Skimmer interface {
	Skim(ctx context.Context, ds *frame.Dataset) (*summary.Result, error)
}
