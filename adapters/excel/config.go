package excel

import (
	"goskim/adapters/datareadiness/coercer"
)

// ExcelConfig holds configuration for a CSV or XLSX data source
type ExcelConfig struct {
	FilePath       string                 `json:"file_path"`
	Name           string                 `json:"name"`      // dataset display name
	Sheet          string                 `json:"sheet"`     // xlsx only; empty means the first sheet
	Delimiter      rune                   `json:"delimiter"` // csv only
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultExcelConfig returns sensible defaults for file processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		Delimiter:      ',',
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
