package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/eastgenomics/inca-import/internal/domain"
)

// incaTable is the bulk-insert target for normalized records.
var incaTable = pgx.Identifier{"testdirectory", "inca"}

// IncaRepository handles persistence of finalized record batches
type IncaRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewIncaRepository creates a new inca repository
func NewIncaRepository(db *pgxpool.Pool, logger *logrus.Logger) *IncaRepository {
	return &IncaRepository{
		db:  db,
		log: logger,
	}
}

// BulkInsert copies a finalized batch into testdirectory.inca in a single
// round trip. The batch must be rectangular: every record carries the same
// key set, which becomes the column list.
func (r *IncaRepository) BulkInsert(ctx context.Context, records []domain.Record) (int64, error) {
	if len(records) == 0 {
		r.log.Debug("No records to insert")
		return 0, nil
	}

	columns, rows, err := columnsAndRows(records)
	if err != nil {
		return 0, err
	}

	copied, err := r.db.CopyFrom(ctx, incaTable, columns, pgx.CopyFromRows(rows))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"records": len(records),
			"error":   err,
		}).Error("Failed to bulk insert records")
		return 0, fmt.Errorf("bulk inserting records: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"records": copied,
		"columns": len(columns),
		"table":   incaTable.Sanitize(),
	}).Info("Records inserted successfully")

	return copied, nil
}

// Count returns the number of rows currently in testdirectory.inca.
func (r *IncaRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM testdirectory.inca`).Scan(&count)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"error": err,
		}).Error("Failed to count records")
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// columnsAndRows flattens a batch into the column list and row values the
// copy protocol wants. Columns are the sorted keys of the first record; a
// record whose key set differs is an error rather than a silent column
// shift.
func columnsAndRows(records []domain.Record) ([]string, [][]any, error) {
	columns := make([]string, 0, len(records[0]))
	for column := range records[0] {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	rows := make([][]any, len(records))
	for i, record := range records {
		if len(record) != len(columns) {
			return nil, nil, fmt.Errorf("record %d has %d fields, expected %d", i, len(record), len(columns))
		}
		row := make([]any, len(columns))
		for j, column := range columns {
			value, ok := record[column]
			if !ok {
				return nil, nil, fmt.Errorf("record %d is missing column %q", i, column)
			}
			row[j] = value
		}
		rows[i] = row
	}
	return columns, rows, nil
}
