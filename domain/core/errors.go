package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Schema errors
	ErrUnsupportedSchema     = errors.New("dataset only has unsupported column types")
	ErrUnsupportedInputShape = errors.New("unsupported input shape")

	// Argument errors
	ErrInvalidArgument = errors.New("invalid argument")

	// Construction errors
	ErrRaggedDataset   = errors.New("columns have different lengths")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrEmptyDataset    = errors.New("dataset has no columns")
)

// Error constructors with context
func NewUnsupportedSchemaError(kinds []string) error {
	return fmt.Errorf("%w, eg %s", ErrUnsupportedSchema, strings.Join(kinds, ", "))
}

func NewMultiIndexError() error {
	return fmt.Errorf("%w: multi-level column indexes are not supported, try using a simple column structure", ErrUnsupportedInputShape)
}

func NewInvalidCaseError(value string, valid []string) error {
	return fmt.Errorf("%w: case %q is invalid, options are: %s", ErrInvalidArgument, value, strings.Join(valid, ", "))
}

func NewInvalidArgumentError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, field, reason)
}

func NewRaggedDatasetError(column string, got, want int) error {
	return fmt.Errorf("%w: column %q has %d rows, expected %d", ErrRaggedDataset, column, got, want)
}

func NewDuplicateColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateColumn, column)
}

// Error checking helpers
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrUnsupportedSchema) ||
		errors.Is(err, ErrUnsupportedInputShape)
}

func IsArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsConstructionError(err error) bool {
	return errors.Is(err, ErrRaggedDataset) ||
		errors.Is(err, ErrDuplicateColumn) ||
		errors.Is(err, ErrEmptyDataset)
}
