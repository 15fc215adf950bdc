package testkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"goskim/adapters/excel"
	"goskim/app"
	"goskim/domain/frame"
	"goskim/domain/summary"
	"goskim/internal"
)

// TestKit provides testing utilities and fixtures
type TestKit struct {
	Service *app.SkimService
	config  summary.Config
}

// NewTestKit creates a test kit whose service uses posix glyphs and a
// silent logger
func NewTestKit() (*TestKit, error) {
	cfg := summary.DefaultConfig()
	cfg.Posix = true
	return NewTestKitWithConfig(cfg)
}

// NewTestKitWithConfig creates a test kit around cfg
func NewTestKitWithConfig(cfg summary.Config) (*TestKit, error) {
	svc, err := app.NewSkimService(cfg, internal.NewNopLogger())
	if err != nil {
		return nil, err
	}
	return &TestKit{Service: svc, config: cfg}, nil
}

// Config returns the summary config the kit's service runs with
func (t *TestKit) Config() summary.Config { return t.config }

// DemoDataset returns the stock demo dataset
func (t *TestKit) DemoDataset() (*frame.Dataset, error) {
	return GenerateDemoDataset(DemoSeed, DemoRows)
}

// SkimDemo summarizes the stock demo dataset
func (t *TestKit) SkimDemo(ctx context.Context) (*summary.Result, error) {
	ds, err := t.DemoDataset()
	if err != nil {
		return nil, err
	}
	return t.Service.Skim(ctx, ds)
}

// WriteCSV writes header and rows to a CSV file under dir and returns
// its path. Cells must not contain commas or quotes.
func WriteCSV(dir, name string, header []string, rows [][]string) (string, error) {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write fixture %s: %w", name, err)
	}
	return path, nil
}

// LoadFile reads a CSV or XLSX fixture through the file reader
func (t *TestKit) LoadFile(ctx context.Context, path string) (*frame.Dataset, error) {
	cfg := excel.DefaultExcelConfig()
	cfg.FilePath = path
	return excel.NewDataReader(cfg).WithLogger(internal.NewNopLogger()).Load(ctx)
}
