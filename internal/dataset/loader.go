package dataset

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"orders-dashboard/internal/errors"
	"orders-dashboard/internal/models"
)

const (
	ColOrderID          = "order_id"
	ColPurchaseTime     = "order_purchase_timestamp"
	ColPrice            = "price"
	ColProductCategory  = "product_category_name_english"
	ColCustomerCity     = "customer_city"
	ColPaymentType      = "payment_type"
	ColPaymentValue     = "payment_value"
	cancelCheckInterval = 4096
)

var requiredColumns = []string{
	ColOrderID,
	ColPrice,
	ColProductCategory,
	ColCustomerCity,
	ColPaymentType,
	ColPaymentValue,
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

type columnIndex map[string]int

// LoadCSV reads the merged order-item file at path.
func LoadCSV(ctx context.Context, path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.LoadWrap(err, fmt.Sprintf("open dataset %q", path))
	}
	defer file.Close()

	return Read(ctx, file)
}

// Read parses CSV data with a header row into a Dataset sorted by purchase timestamp.
func Read(ctx context.Context, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Load("dataset is empty")
	}
	if err != nil {
		return nil, errors.LoadWrap(err, "read header")
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []models.OrderRecord
	for line := 2; ; line++ {
		if line%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.LoadWrap(err, fmt.Sprintf("read line %d", line))
		}

		rec, err := parseRecord(row, cols, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, errors.Load("dataset has no records")
	}

	return New(records), nil
}

func indexColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	if _, ok := cols[ColPurchaseTime]; !ok {
		return nil, errors.Parse(fmt.Sprintf("missing column %q", ColPurchaseTime))
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Load(fmt.Sprintf("missing columns: %s", strings.Join(missing, ", ")))
	}

	return cols, nil
}

func parseRecord(row []string, cols columnIndex, line int) (models.OrderRecord, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[cols[name]])
	}

	ts, err := ParseTimestamp(field(ColPurchaseTime))
	if err != nil {
		return models.OrderRecord{}, errors.ParseWrap(err, fmt.Sprintf("line %d: %s", line, ColPurchaseTime))
	}

	orderID := field(ColOrderID)
	if orderID == "" {
		return models.OrderRecord{}, errors.Load(fmt.Sprintf("line %d: empty %s", line, ColOrderID))
	}

	price, err := parseAmount(field(ColPrice))
	if err != nil {
		return models.OrderRecord{}, errors.LoadWrap(err, fmt.Sprintf("line %d: %s", line, ColPrice))
	}

	paymentValue, err := parseAmount(field(ColPaymentValue))
	if err != nil {
		return models.OrderRecord{}, errors.LoadWrap(err, fmt.Sprintf("line %d: %s", line, ColPaymentValue))
	}

	return models.OrderRecord{
		OrderID:           orderID,
		PurchaseTimestamp: ts,
		Price:             price,
		CustomerCity:      field(ColCustomerCity),
		ProductCategory:   field(ColProductCategory),
		PaymentType:       field(ColPaymentType),
		PaymentValue:      paymentValue,
	}, nil
}

// ParseTimestamp accepts the layouts found in exported order data. Zone offsets are
// dropped: the wall clock is kept and stored as UTC so calendar days never shift.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, stderrors.New("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return wallClockUTC(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// parseAmount returns NaN for an empty cell. Spelled-out infinities and NaN are
// rejected like any other non-numeric text.
func parseAmount(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite amount %q", s)
	}
	return v, nil
}
