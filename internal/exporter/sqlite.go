package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"evagobi/internal/errors"
	"evagobi/pkg/contracts/domain"
)

// CatalogTable describes every chart table loaded into the data model
const CatalogTable = "chart_catalog"

// SQLiteExporter loads chart tables into a SQLite database for the Power BI ODBC connector
type SQLiteExporter struct {
	logger *slog.Logger
}

// NewSQLiteExporter creates a SQLite exporter
func NewSQLiteExporter(logger *slog.Logger) *SQLiteExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteExporter{logger: logger.With(slog.String("component", "sqlite_exporter"))}
}

// Export recreates the database at dbPath with one table per chart
func (e *SQLiteExporter) Export(ctx context.Context, dbPath string, tables []*domain.Table) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err)
	}
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return errors.NewStorageError("failed to remove previous data model", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return errors.NewStorageError("failed to open data model", err).WithContext("path", dbPath)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE %s (key TEXT PRIMARY KEY, title TEXT, kind TEXT, row_count INTEGER)`, quoteIdent(CatalogTable))); err != nil {
		return errors.NewStorageError("failed to create catalog", err)
	}

	for _, table := range tables {
		if err := e.loadTable(ctx, tx, table); err != nil {
			return err
		}

		title, kind := table.Key, ""
		if spec, ok := domain.ChartByKey(table.Key); ok {
			title, kind = spec.Title, spec.Kind
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (key, title, kind, row_count) VALUES (?, ?, ?, ?)`, quoteIdent(CatalogTable)),
			table.Key, title, kind, table.Len()); err != nil {
			return errors.NewStorageError("failed to register chart", err).WithContext("chart", table.Key)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("failed to commit data model", err)
	}

	e.logger.InfoContext(ctx, "Data model written",
		slog.String("path", dbPath),
		slog.Int("tables", len(tables)))
	return nil
}

// loadTable creates and fills one table; column affinity is inferred from the cells
func (e *SQLiteExporter) loadTable(ctx context.Context, tx *sql.Tx, table *domain.Table) error {
	affinities := inferAffinities(table)

	defs := make([]string, len(table.Headers))
	cols := make([]string, len(table.Headers))
	marks := make([]string, len(table.Headers))
	for i, h := range table.Headers {
		cols[i] = quoteIdent(h)
		defs[i] = cols[i] + " " + affinities[i]
		marks[i] = "?"
	}

	name := quoteIdent(table.Key)
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))); err != nil {
		return errors.NewStorageError("failed to create table", err).WithContext("chart", table.Key)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return errors.NewStorageError("failed to prepare insert", err).WithContext("chart", table.Key)
	}
	defer stmt.Close()

	args := make([]interface{}, len(table.Headers))
	for r, record := range table.Records {
		for c := range table.Headers {
			args[c] = sqlValue(record, c, affinities[c])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.NewStorageError("failed to insert row", err).
				WithContext("chart", table.Key).
				WithContext("row", r)
		}
	}
	return nil
}

// inferAffinities picks INTEGER, REAL or TEXT per column; empty cells do not vote
func inferAffinities(table *domain.Table) []string {
	affinities := make([]string, len(table.Headers))
	for c := range table.Headers {
		allInt, allNum, seen := true, true, false
		for _, record := range table.Records {
			if c >= len(record) || record[c] == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseInt(record[c], 10, 64); err != nil {
				allInt = false
			}
			if _, ok := ParseNumber(record[c]); !ok {
				allNum = false
			}
		}
		switch {
		case seen && allInt:
			affinities[c] = "INTEGER"
		case seen && allNum:
			affinities[c] = "REAL"
		default:
			affinities[c] = "TEXT"
		}
	}
	return affinities
}

func sqlValue(record []string, c int, affinity string) interface{} {
	if c >= len(record) || record[c] == "" {
		return nil
	}
	switch affinity {
	case "INTEGER":
		v, _ := strconv.ParseInt(record[c], 10, 64)
		return v
	case "REAL":
		v, _ := ParseNumber(record[c])
		return v
	}
	return record[c]
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
