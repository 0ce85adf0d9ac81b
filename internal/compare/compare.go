// Package compare diffs the distinct values held by curated columns of
// testdirectory.inca across two databases, typically a development and a
// production instance. The output is a transposed TSV: one column per
// checked field, with rows for the field names, the values present in
// both, the values only in the first database, and the values only in the
// second.
package compare

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/eastgenomics/inca-import/internal/database"
	"github.com/eastgenomics/inca-import/internal/domain"
)

// DefaultReportName is where the comparison TSV lands unless a path is
// given on the command line.
const DefaultReportName = "db_comparison.tsv"

// nullMarker stands in for SQL NULL so that NULL participates in the set
// arithmetic like any other distinct value.
const nullMarker = "None"

// ComparisonColumns returns the fields whose value sets are worth diffing
// between instances: the classification and provenance columns plus every
// evidence column except ba1.
func ComparisonColumns() []string {
	columns := []string{
		"germline_classification",
		"collection_method",
		"allele_origin",
		"consequence",
		"probeset_id",
		"ref_genome",
	}
	for _, column := range domain.ACGSColumns() {
		if column == "ba1" {
			continue
		}
		columns = append(columns, column)
	}
	return columns
}

// ColumnDiff is the comparison result for a single column. The value
// slices are sorted.
type ColumnDiff struct {
	Column     string
	Shared     []string
	FirstOnly  []string
	SecondOnly []string
}

// Comparator reads distinct column values from two databases and diffs
// them.
type Comparator struct {
	first  *sql.DB
	second *sql.DB
	log    *logrus.Logger
}

// NewComparator creates a comparator over two open database handles.
func NewComparator(first, second *sql.DB, logger *logrus.Logger) *Comparator {
	return &Comparator{
		first:  first,
		second: second,
		log:    logger,
	}
}

// Open connects to a database for comparison and verifies the connection.
func Open(cfg *domain.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", database.URL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Run diffs the given columns across both databases, in order.
func (c *Comparator) Run(ctx context.Context, columns []string) ([]ColumnDiff, error) {
	diffs := make([]ColumnDiff, 0, len(columns))
	for _, column := range columns {
		firstValues, err := distinctValues(ctx, c.first, column)
		if err != nil {
			return nil, fmt.Errorf("reading %s from first database: %w", column, err)
		}
		secondValues, err := distinctValues(ctx, c.second, column)
		if err != nil {
			return nil, fmt.Errorf("reading %s from second database: %w", column, err)
		}

		diff := ColumnDiff{
			Column:     column,
			Shared:     intersection(firstValues, secondValues),
			FirstOnly:  difference(firstValues, secondValues),
			SecondOnly: difference(secondValues, firstValues),
		}
		diffs = append(diffs, diff)

		c.log.WithFields(logrus.Fields{
			"column":      column,
			"shared":      len(diff.Shared),
			"first_only":  len(diff.FirstOnly),
			"second_only": len(diff.SecondOnly),
		}).Debug("Column compared")
	}
	return diffs, nil
}

// distinctValues reads the distinct values of one column. The column name
// comes from the fixed comparison list, never from input, and is quoted
// anyway.
func distinctValues(ctx context.Context, db *sql.DB, column string) (map[string]struct{}, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM testdirectory.inca`, pq.QuoteIdentifier(column))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct values: %w", err)
	}
	defer rows.Close()

	values := make(map[string]struct{})
	for rows.Next() {
		var value sql.NullString
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		if value.Valid {
			values[value.String] = struct{}{}
		} else {
			values[nullMarker] = struct{}{}
		}
	}
	return values, rows.Err()
}

func intersection(a, b map[string]struct{}) []string {
	var out []string
	for value := range a {
		if _, ok := b[value]; ok {
			out = append(out, value)
		}
	}
	sort.Strings(out)
	return out
}

func difference(a, b map[string]struct{}) []string {
	var out []string
	for value := range a {
		if _, ok := b[value]; !ok {
			out = append(out, value)
		}
	}
	sort.Strings(out)
	return out
}

// WriteTSV renders the diffs transposed: four rows of column names,
// shared values, first-only values, and second-only values, one
// tab-separated cell per column. Multiple values in a cell are joined
// with ", ".
func WriteTSV(w io.Writer, diffs []ColumnDiff) error {
	rows := [4][]string{}
	for _, diff := range diffs {
		rows[0] = append(rows[0], diff.Column)
		rows[1] = append(rows[1], strings.Join(diff.Shared, ", "))
		rows[2] = append(rows[2], strings.Join(diff.FirstOnly, ", "))
		rows[3] = append(rows[3], strings.Join(diff.SecondOnly, ", "))
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s\n", strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("failed to write comparison row: %w", err)
		}
	}
	return nil
}
