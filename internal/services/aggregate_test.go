package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orders-dashboard/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

// fixture covers four days with a gap on Jan 3 and a multi-item order.
func fixture() []models.OrderRecord {
	return []models.OrderRecord{
		{OrderID: "a", PurchaseTimestamp: at(2024, 1, 1, 9), Price: 10, ProductCategory: "toys", CustomerCity: "sao paulo", PaymentType: "credit_card", PaymentValue: 40},
		{OrderID: "a", PurchaseTimestamp: at(2024, 1, 1, 9), Price: 30, ProductCategory: "books", CustomerCity: "sao paulo", PaymentType: "credit_card", PaymentValue: 40},
		{OrderID: "b", PurchaseTimestamp: at(2024, 1, 1, 15), Price: 20, ProductCategory: "toys", CustomerCity: "curitiba", PaymentType: "boleto", PaymentValue: 20},
		{OrderID: "c", PurchaseTimestamp: at(2024, 1, 2, 11), Price: 5, ProductCategory: "garden", CustomerCity: "recife", PaymentType: "voucher", PaymentValue: 5},
		{OrderID: "d", PurchaseTimestamp: at(2024, 1, 4, 20), Price: 15, ProductCategory: "books", CustomerCity: "sao paulo", PaymentType: "credit_card", PaymentValue: 15},
		{OrderID: "e", PurchaseTimestamp: at(2024, 1, 4, 21), Price: math.NaN(), ProductCategory: "toys", CustomerCity: "curitiba", PaymentType: "boleto", PaymentValue: math.NaN()},
	}
}

func TestDailyOrders_ZeroFillsGaps(t *testing.T) {
	got := DailyOrders(fixture())

	want := []models.DailyOrders{
		{Day: day(2024, 1, 1), DistinctOrderCount: 2, RevenueSum: 60},
		{Day: day(2024, 1, 2), DistinctOrderCount: 1, RevenueSum: 5},
		{Day: day(2024, 1, 3), DistinctOrderCount: 0, RevenueSum: 0},
		{Day: day(2024, 1, 4), DistinctOrderCount: 2, RevenueSum: 15},
	}
	assert.Equal(t, want, got)
}

func TestDailyOrders_Scenario(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "o1", PurchaseTimestamp: at(2024, 1, 1, 8), Price: 10},
		{OrderID: "o2", PurchaseTimestamp: at(2024, 1, 1, 12), Price: 20},
		{OrderID: "o3", PurchaseTimestamp: at(2024, 1, 1, 18), Price: 30},
	}

	got := DailyOrders(records)

	require.Len(t, got, 1)
	assert.Equal(t, day(2024, 1, 1), got[0].Day)
	assert.Equal(t, 3, got[0].DistinctOrderCount)
	assert.InDelta(t, 60.0, got[0].RevenueSum, 1e-9)
}

func TestDailyOrders_TotalsMatchInput(t *testing.T) {
	records := fixture()
	got := DailyOrders(records)

	distinct := map[string]struct{}{}
	var revenue float64
	for _, rec := range records {
		distinct[rec.OrderID] = struct{}{}
		if !math.IsNaN(rec.Price) {
			revenue += rec.Price
		}
	}

	var orders int
	var sum float64
	for i, row := range got {
		orders += row.DistinctOrderCount
		sum += row.RevenueSum
		if i > 0 {
			assert.Equal(t, got[i-1].Day.AddDate(0, 0, 1), row.Day, "ascending, one bucket per day")
		}
	}
	assert.Equal(t, len(distinct), orders)
	assert.InDelta(t, revenue, sum, 1e-9)
}

func TestCategoryPopularity(t *testing.T) {
	got := CategoryPopularity(fixture())

	want := []models.CategoryPopularity{
		{CategoryName: "toys", ItemCount: 3},
		{CategoryName: "books", ItemCount: 2},
		{CategoryName: "garden", ItemCount: 1},
	}
	assert.Equal(t, want, got)
}

func TestCategoryPopularity_TiesKeepNameOrder(t *testing.T) {
	records := []models.OrderRecord{
		{OrderID: "1", ProductCategory: "zebra"},
		{OrderID: "2", ProductCategory: "apple"},
		{OrderID: "3", ProductCategory: "mango"},
		{OrderID: "4", ProductCategory: "mango"},
	}

	got := CategoryPopularity(records)

	names := []string{got[0].CategoryName, got[1].CategoryName, got[2].CategoryName}
	assert.Equal(t, []string{"mango", "apple", "zebra"}, names)

	worst := WorstCategories(got, 2)
	assert.Equal(t, []models.CategoryPopularity{
		{CategoryName: "apple", ItemCount: 1},
		{CategoryName: "zebra", ItemCount: 1},
	}, worst)

	best := BestCategories(got, 1)
	assert.Equal(t, []models.CategoryPopularity{{CategoryName: "mango", ItemCount: 2}}, best)
}

func TestCategoryPopularity_CountsSumToRows(t *testing.T) {
	records := fixture()
	got := CategoryPopularity(records)

	total := 0
	for i, row := range got {
		total += row.ItemCount
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].ItemCount, row.ItemCount)
		}
	}
	assert.Equal(t, len(records), total)
}

func TestCityOrders(t *testing.T) {
	got := CityOrders(fixture())

	want := []models.CityOrders{
		{City: "curitiba", OrderCount: 2},
		{City: "recife", OrderCount: 1},
		{City: "sao paulo", OrderCount: 3},
	}
	assert.Equal(t, want, got)

	top := TopCities(got, 2)
	assert.Equal(t, []models.CityOrders{
		{City: "sao paulo", OrderCount: 3},
		{City: "curitiba", OrderCount: 2},
	}, top)
	assert.Equal(t, want, got, "TopCities must not reorder its input")
}

func TestPaymentMethods(t *testing.T) {
	records := fixture()
	got := PaymentMethods(records)

	require.Len(t, got, 3)
	byType := map[string]models.PaymentMethodStats{}
	for _, row := range got {
		byType[row.PaymentType] = row
	}
	assert.Equal(t, []string{"boleto", "credit_card", "voucher"}, []string{got[0].PaymentType, got[1].PaymentType, got[2].PaymentType})

	card := byType["credit_card"]
	assert.Equal(t, 3, card.RecordCount)
	assert.InDelta(t, (40.0+40+15)/3, card.MeanPaymentValue, 1e-9)
	assert.InDelta(t, 55.0, card.TotalPrice, 1e-9)

	boleto := byType["boleto"]
	assert.Equal(t, 2, boleto.RecordCount)
	assert.InDelta(t, 20.0, boleto.MeanPaymentValue, 1e-9, "NaN payment values are skipped")
	assert.InDelta(t, 20.0, boleto.TotalPrice, 1e-9)

	for paymentType, row := range byType {
		n := 0
		for _, rec := range records {
			if rec.PaymentType == paymentType {
				n++
			}
		}
		assert.Equal(t, n, row.RecordCount, paymentType)
	}
}

func TestPaymentMethods_AllValuesMissing(t *testing.T) {
	got := PaymentMethods([]models.OrderRecord{
		{OrderID: "x", PaymentType: "debit_card", Price: 3, PaymentValue: math.NaN()},
	})

	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].MeanPaymentValue)
	assert.Equal(t, 3.0, got[0].TotalPrice)
}

func TestSummarizePayments(t *testing.T) {
	got := SummarizePayments([]models.PaymentMethodStats{
		{PaymentType: "a", RecordCount: 2, MeanPaymentValue: 10, TotalPrice: 100},
		{PaymentType: "b", RecordCount: 4, MeanPaymentValue: 30, TotalPrice: 50},
	})

	assert.InDelta(t, 3.0, got.MeanRecordCount, 1e-9)
	assert.InDelta(t, 20.0, got.MeanOfMeanPayment, 1e-9)
	assert.InDelta(t, 75.0, got.MeanTotalPrice, 1e-9)
	assert.Equal(t, 2, got.PaymentTypesObserved)

	assert.Equal(t, models.PaymentOverview{}, SummarizePayments(nil))
}

func TestAggregators_EmptyInput(t *testing.T) {
	for _, records := range [][]models.OrderRecord{nil, {}} {
		assert.NotNil(t, DailyOrders(records))
		assert.Empty(t, DailyOrders(records))
		assert.NotNil(t, CategoryPopularity(records))
		assert.Empty(t, CategoryPopularity(records))
		assert.NotNil(t, CityOrders(records))
		assert.Empty(t, CityOrders(records))
		assert.NotNil(t, PaymentMethods(records))
		assert.Empty(t, PaymentMethods(records))
	}

	bundle := Summarize(nil, models.DateRange{})
	assert.Zero(t, bundle.TotalOrders)
	assert.Zero(t, bundle.TotalRevenue)
	assert.Zero(t, bundle.RecordCount)
}

func TestAggregators_Idempotent(t *testing.T) {
	records := fixture()

	assert.Equal(t, CategoryPopularity(records), CategoryPopularity(records))
	assert.Equal(t, CityOrders(records), CityOrders(records))
	assert.Equal(t, PaymentMethods(records), PaymentMethods(records))
	assert.Equal(t, DailyOrders(records), DailyOrders(records))
	assert.True(t, math.IsNaN(records[5].Price), "input untouched")
}

func TestSummarize_Totals(t *testing.T) {
	bundle := Summarize(fixture(), models.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 4)})

	assert.Equal(t, 5, bundle.TotalOrders)
	assert.InDelta(t, 80.0, bundle.TotalRevenue, 1e-9)
	assert.Equal(t, 6, bundle.RecordCount)
	assert.Equal(t, 3, bundle.PaymentOverview.PaymentTypesObserved)
}

func TestHead(t *testing.T) {
	rows := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2}, head(rows, 2))
	assert.Equal(t, []int{1, 2, 3}, head(rows, 0))
	assert.Equal(t, []int{1, 2, 3}, head(rows, 10))
}

func BenchmarkSummarize(b *testing.B) {
	base := fixture()
	records := make([]models.OrderRecord, 0, len(base)*5000)
	for i := 0; i < 5000; i++ {
		for _, rec := range base {
			rec.PurchaseTimestamp = rec.PurchaseTimestamp.AddDate(0, 0, i%365)
			records = append(records, rec)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Summarize(records, models.DateRange{})
	}
}
