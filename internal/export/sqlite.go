package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"orders-dashboard/internal/models"
)

// WriteSQLite replaces the database at path with one table per summary table:
// run_info, daily_orders, category_popularity, city_orders and payment_methods.
func WriteSQLite(ctx context.Context, path string, bundle models.SummaryBundle) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tables(bundle) {
		if err := writeTable(ctx, tx, t); err != nil {
			return fmt.Errorf("write table %s: %w", t.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func writeTable(ctx context.Context, tx *sql.Tx, t table) error {
	defs := make([]string, len(t.columns))
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		defs[i] = fmt.Sprintf("%q %s", c.name, c.sqlType)
		names[i] = fmt.Sprintf("%q", c.name)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %q (%s)`, t.name, strings.Join(defs, ","))); err != nil {
		return err
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(t.columns)), ",")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`, t.name, strings.Join(names, ","), ph))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range t.rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return err
		}
	}
	return nil
}
