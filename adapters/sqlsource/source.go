// Package sqlsource loads the result of a SQL query as a dataset.
package sqlsource

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"goskim/domain/frame"
	"goskim/internal"
	apperrors "goskim/internal/errors"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// DriverForDSN picks the driver from the shape of the DSN: URL or key=value
// forms are postgres, everything else is a MySQL DSN.
func DriverForDSN(dsn string) string {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(lower, "mysql://"):
		return DriverMySQL
	case strings.Contains(lower, "host=") || strings.Contains(lower, "dbname="):
		return DriverPostgres
	}
	return DriverMySQL
}

// NormalizeDSN returns the DSN to hand to the driver. MySQL DSNs get
// parseTime so DATETIME columns scan as time.Time.
func NormalizeDSN(dsn string) (string, error) {
	if DriverForDSN(dsn) != DriverMySQL {
		return dsn, nil
	}
	cfg, err := mysql.ParseDSN(strings.TrimPrefix(dsn, "mysql://"))
	if err != nil {
		return "", apperrors.WithCode(apperrors.CodeConfigInvalid, fmt.Errorf("invalid mysql dsn: %w", err))
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Open connects to the database named by dsn
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	normalized, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.ConnectContext(ctx, DriverForDSN(dsn), normalized)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("failed to connect: %w", err))
	}
	return db, nil
}

// Source runs one query and turns its rows into a dataset
type Source struct {
	db     *sqlx.DB
	query  string
	args   []any
	name   string
	logger *internal.Logger
}

// New creates a query source over an open connection
func New(db *sqlx.DB, name, query string, args ...any) *Source {
	return &Source{db: db, query: query, args: args, name: name, logger: internal.DefaultLogger}
}

// WithLogger replaces the source's logger
func (s *Source) WithLogger(logger *internal.Logger) *Source {
	s.logger = logger
	return s
}

// Load implements ports.DatasetSource
func (s *Source) Load(ctx context.Context) (*frame.Dataset, error) {
	startTime := time.Now()
	rows, err := s.db.QueryxContext(ctx, s.query, s.args...)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("query failed: %w", err))
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	dbTypes := make([]string, len(types))
	for i, ct := range types {
		dbTypes[i] = strings.ToUpper(ct.DatabaseTypeName())
	}

	var records [][]any
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("scan failed: %w", err))
		}
		for i, v := range values {
			values[i] = ConvertCell(v, dbTypes[i])
		}
		records = append(records, values)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}

	s.logger.Debug("[sqlsource] %d rows, %d columns in %s", len(records), len(names), time.Since(startTime))
	return frame.FromRecords(s.name, names, records)
}

// ConvertCell maps a scanned driver value onto the dataset's value kinds.
// Drivers return DECIMAL and most text as []byte.
func ConvertCell(v any, dbType string) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	s := string(b)
	switch dbType {
	case "DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL", "FLOAT4", "FLOAT8":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "MEDIUMINT", "INT2", "INT4", "INT8":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case "BOOL", "BOOLEAN":
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
	}
	return s
}
