package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"goskim/adapters/datareadiness/coercer"
	"goskim/domain/frame"
	"goskim/internal"
	apperrors "goskim/internal/errors"
)

// DataReader reads CSV and XLSX files into datasets
type DataReader struct {
	config   ExcelConfig
	fileType string // "xlsx" or "csv"
	source   io.Reader
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
}

// NewDataReader creates a reader for config.FilePath; the extension picks
// the format.
func NewDataReader(config ExcelConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	return newReader(config, fileType, nil)
}

// NewCSVStreamReader reads CSV from src instead of a file
func NewCSVStreamReader(src io.Reader, config ExcelConfig) *DataReader {
	return newReader(config, "csv", src)
}

func newReader(config ExcelConfig, fileType string, src io.Reader) *DataReader {
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	return &DataReader{
		config:   config,
		fileType: fileType,
		source:   src,
		coercer:  coercer.NewTypeCoercer(config.CoercionConfig),
		logger:   internal.DefaultLogger,
	}
}

// WithLogger replaces the reader's logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	r.logger = logger
	return r
}

// Load reads the file and types every column
func (r *DataReader) Load(ctx context.Context) (*frame.Dataset, error) {
	data, err := r.ReadData(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.ToDataset(data)
}

// ReadData reads raw cells without typing them
func (r *DataReader) ReadData(ctx context.Context) (*RawData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.source != nil {
		r.logger.Debug("[DataReader] reading csv stream")
		return r.readCSVData(r.source)
	}

	r.logger.Debug("[DataReader] reading %s file: %s", r.fileType, r.config.FilePath)
	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, apperrors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.config.FilePath))
	}

	switch r.fileType {
	case "xlsx":
		return r.readExcelData()
	default:
		file, err := os.Open(r.config.FilePath)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to open CSV file")
		}
		defer file.Close()
		return r.readCSVData(file)
	}
}

// readExcelData reads the configured sheet, or the first one
func (r *DataReader) readExcelData() (*RawData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}
	r.logger.Debug("[DataReader] sheet %s read in %s (%d rows)", sheet, time.Since(startTime), len(rows))

	data, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	data.Hints = make([]coercer.ValueType, len(data.Headers))
	for j := range data.Headers {
		if r.isBoolColumn(f, sheet, data, j) {
			data.Hints[j] = coercer.ValueTypeBoolean
			for _, row := range data.Rows {
				row[j] = excelBool(row[j])
			}
		}
	}
	return data, nil
}

// isBoolColumn reports whether every non-empty cell of column j is a
// native boolean. Raw values of such cells are "1" and "0".
func (r *DataReader) isBoolColumn(f *excelize.File, sheet string, data *RawData, j int) bool {
	seen := false
	for i, row := range data.Rows {
		if row[j] == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(j+1, i+2) // row 1 is the header
		if err != nil {
			return false
		}
		cellType, err := f.GetCellType(sheet, cell)
		if err != nil || cellType != excelize.CellTypeBool {
			return false
		}
		seen = true
	}
	return seen
}

func excelBool(raw string) string {
	switch raw {
	case "1":
		return "true"
	case "0":
		return "false"
	}
	return raw
}

// readCSVData reads CSV data into raw rows
func (r *DataReader) readCSVData(src io.Reader) (*RawData, error) {
	reader := csv.NewReader(src)
	reader.Comma = r.config.Delimiter
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("failed to read CSV: %w", err))
	}
	r.logger.Debug("[DataReader] CSV read in %s (%d rows)", time.Since(readStart), len(rows))

	return r.processRows(rows)
}

// processRows splits off the header row and pads short rows with empty cells
func (r *DataReader) processRows(rows [][]string) (*RawData, error) {
	if len(rows) == 0 {
		return nil, apperrors.InvalidInput("file has no header row")
	}

	width := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) > width {
			return nil, apperrors.InvalidInput(fmt.Sprintf("row has %d fields, header has %d", len(row), width))
		}
	}

	headerRow := rows[0]
	headers := make([]string, width)
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		padded := make([]string, width)
		copy(padded, row)
		dataRows = append(dataRows, padded)
	}

	r.logger.Debug("[DataReader] %s processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), width, len(dataRows))

	return &RawData{Headers: dedupeHeaders(headers), Rows: dataRows}, nil
}

// ToDataset types each column with the coercer
func (r *DataReader) ToDataset(data *RawData) (*frame.Dataset, error) {
	cols := make([]*frame.Column, len(data.Headers))
	for j, header := range data.Headers {
		cells := data.Column(j)
		var (
			values []any
			vt     coercer.ValueType
		)
		if j < len(data.Hints) && data.Hints[j] != "" {
			vt = data.Hints[j]
			values = make([]any, len(cells))
			for i, cell := range cells {
				if !r.coercer.IsNull(cell) {
					values[i] = r.coercer.CoerceValue(cell, vt)
				}
			}
		} else {
			values, vt = r.coercer.CoerceColumn(cells)
		}
		r.logger.Trace("[DataReader] column %q typed as %s", header, vt)
		cols[j] = frame.NewColumn(header, values)
	}
	return frame.NewDataset(r.config.Name, cols...)
}

// dedupeHeaders names blank headers "Unnamed: <index>" and suffixes
// repeats with ".1", ".2", ...
func dedupeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
