package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"orders-dashboard/internal/errors"
)

const ordersCSV = `order_id,order_purchase_timestamp,price,product_category_name_english,customer_city,payment_type,payment_value
o1,2018-03-01 08:00:00,10,toys,sao paulo,credit_card,10
o2,2018-03-01 12:00:00,20,toys,sao paulo,credit_card,20
o3,2018-03-01 18:00:00,30,books,curitiba,voucher,30
o4,2018-03-05 09:30:00,5,garden,recife,boleto,5
`

func writeOrders(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(ordersCSV), 0o644))
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-csv", "in.csv", "-start", "2018-03-01", "-end", "2018-03-02", "-xlsx", "out.xlsx"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "in.csv", opts.csvPath)
	assert.Equal(t, "2018-03-01", opts.start)
	assert.Equal(t, "out.xlsx", opts.xlsxPath)

	_, err = parseFlags([]string{"-csv", "in.csv"}, io.Discard)
	assert.Error(t, err, "an output is required")

	_, err = parseFlags([]string{"-bogus"}, io.Discard)
	assert.Error(t, err)
}

func TestRun_WritesBothOutputs(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		csvPath:    writeOrders(t),
		start:      "2018-03-01",
		end:        "2018-03-01",
		xlsxPath:   filepath.Join(dir, "summary.xlsx"),
		sqlitePath: filepath.Join(dir, "summary.sqlite"),
	}

	require.NoError(t, run(context.Background(), opts, quietLogger()))

	f, err := excelize.OpenFile(opts.xlsxPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Daily Orders")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2018-03-01", "3", "60"}, rows[1])

	db, err := sql.Open("sqlite", opts.sqlitePath)
	require.NoError(t, err)
	defer db.Close()
	var records int
	require.NoError(t, db.QueryRow(`SELECT record_count FROM run_info`).Scan(&records))
	assert.Equal(t, 3, records)
}

func TestRun_FullRangeByDefault(t *testing.T) {
	opts := options{
		csvPath:    writeOrders(t),
		sqlitePath: filepath.Join(t.TempDir(), "summary.sqlite"),
	}

	require.NoError(t, run(context.Background(), opts, quietLogger()))

	db, err := sql.Open("sqlite", opts.sqlitePath)
	require.NoError(t, err)
	defer db.Close()

	var days int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM daily_orders`).Scan(&days))
	assert.Equal(t, 5, days, "zero-filled from the first to the last day")
}

func TestRun_Errors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "summary.xlsx")

	err := run(context.Background(), options{csvPath: writeOrders(t), start: "2018-03-05", end: "2018-03-01", xlsxPath: out}, quietLogger())
	assert.True(t, errors.HasCode(err, errors.CodeValidation), "inverted range: %v", err)

	err = run(context.Background(), options{csvPath: filepath.Join(t.TempDir(), "missing.csv"), xlsxPath: out}, quietLogger())
	assert.True(t, errors.HasCode(err, errors.CodeLoad), "missing file: %v", err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}
