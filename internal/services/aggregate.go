package services

import (
	"cmp"
	"math"
	"slices"

	"orders-dashboard/internal/dataset"
	"orders-dashboard/internal/models"
)

// The aggregators below are pure: they read records, never modify them, and return
// fresh non-nil slices (empty for empty input). Missing amounts (NaN) are skipped.

// DailyOrders buckets records by purchase day, covering every day from the first to
// the last day present, and reports distinct orders and summed price per day.
func DailyOrders(records []models.OrderRecord) []models.DailyOrders {
	if len(records) == 0 {
		return []models.DailyOrders{}
	}

	type bucket struct {
		orders  map[string]struct{}
		revenue float64
	}

	buckets := make(map[int64]*bucket)
	first := dataset.Day(records[0].PurchaseTimestamp)
	last := first

	for _, rec := range records {
		day := dataset.Day(rec.PurchaseTimestamp)
		if day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}

		b := buckets[day.Unix()]
		if b == nil {
			b = &bucket{orders: make(map[string]struct{})}
			buckets[day.Unix()] = b
		}
		b.orders[rec.OrderID] = struct{}{}
		if !math.IsNaN(rec.Price) {
			b.revenue += rec.Price
		}
	}

	days := int(last.Sub(first).Hours()/24) + 1
	result := make([]models.DailyOrders, 0, days)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		row := models.DailyOrders{Day: day}
		if b := buckets[day.Unix()]; b != nil {
			row.DistinctOrderCount = len(b.orders)
			row.RevenueSum = b.revenue
		}
		result = append(result, row)
	}
	return result
}

// CategoryPopularity counts line items per product category, most popular first.
// Equal counts keep ascending category-name order.
func CategoryPopularity(records []models.OrderRecord) []models.CategoryPopularity {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.ProductCategory]++
	}

	result := make([]models.CategoryPopularity, 0, len(counts))
	for name, n := range counts {
		result = append(result, models.CategoryPopularity{CategoryName: name, ItemCount: n})
	}
	slices.SortFunc(result, func(a, b models.CategoryPopularity) int {
		return cmp.Compare(a.CategoryName, b.CategoryName)
	})
	slices.SortStableFunc(result, func(a, b models.CategoryPopularity) int {
		return cmp.Compare(b.ItemCount, a.ItemCount)
	})
	return result
}

// CityOrders counts records per customer city in ascending city-name order.
func CityOrders(records []models.OrderRecord) []models.CityOrders {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.CustomerCity]++
	}

	result := make([]models.CityOrders, 0, len(counts))
	for city, n := range counts {
		result = append(result, models.CityOrders{City: city, OrderCount: n})
	}
	slices.SortFunc(result, func(a, b models.CityOrders) int {
		return cmp.Compare(a.City, b.City)
	})
	return result
}

// PaymentMethods reports, per payment type, the record count, the mean payment value
// and the summed price, in ascending payment-type order. A type with no payment value
// at all reports a mean of zero.
func PaymentMethods(records []models.OrderRecord) []models.PaymentMethodStats {
	type acc struct {
		count      int
		paymentSum float64
		paymentN   int
		priceSum   float64
	}

	groups := make(map[string]*acc)
	for _, rec := range records {
		g := groups[rec.PaymentType]
		if g == nil {
			g = &acc{}
			groups[rec.PaymentType] = g
		}
		g.count++
		if !math.IsNaN(rec.PaymentValue) {
			g.paymentSum += rec.PaymentValue
			g.paymentN++
		}
		if !math.IsNaN(rec.Price) {
			g.priceSum += rec.Price
		}
	}

	result := make([]models.PaymentMethodStats, 0, len(groups))
	for paymentType, g := range groups {
		row := models.PaymentMethodStats{
			PaymentType: paymentType,
			RecordCount: g.count,
			TotalPrice:  g.priceSum,
		}
		if g.paymentN > 0 {
			row.MeanPaymentValue = g.paymentSum / float64(g.paymentN)
		}
		result = append(result, row)
	}
	slices.SortFunc(result, func(a, b models.PaymentMethodStats) int {
		return cmp.Compare(a.PaymentType, b.PaymentType)
	})
	return result
}

// SummarizePayments averages each payment table column across payment types.
func SummarizePayments(rows []models.PaymentMethodStats) models.PaymentOverview {
	if len(rows) == 0 {
		return models.PaymentOverview{}
	}

	var counts, means, totals float64
	for _, row := range rows {
		counts += float64(row.RecordCount)
		means += row.MeanPaymentValue
		totals += row.TotalPrice
	}

	n := float64(len(rows))
	return models.PaymentOverview{
		MeanRecordCount:      counts / n,
		MeanOfMeanPayment:    means / n,
		MeanTotalPrice:       totals / n,
		PaymentTypesObserved: len(rows),
	}
}

// BestCategories returns the first n rows of a popularity table. n <= 0 means all.
func BestCategories(table []models.CategoryPopularity, n int) []models.CategoryPopularity {
	return head(table, n)
}

// WorstCategories re-sorts a popularity table ascending by count (stable) and returns
// the first n rows. n <= 0 means all.
func WorstCategories(table []models.CategoryPopularity, n int) []models.CategoryPopularity {
	sorted := slices.Clone(table)
	slices.SortStableFunc(sorted, func(a, b models.CategoryPopularity) int {
		return cmp.Compare(a.ItemCount, b.ItemCount)
	})
	return head(sorted, n)
}

// TopCities sorts a city table descending by count (stable) and returns the first n
// rows. n <= 0 means all.
func TopCities(table []models.CityOrders, n int) []models.CityOrders {
	sorted := slices.Clone(table)
	slices.SortStableFunc(sorted, func(a, b models.CityOrders) int {
		return cmp.Compare(b.OrderCount, a.OrderCount)
	})
	return head(sorted, n)
}

// Summarize runs every aggregator over one filtered dataset.
func Summarize(records []models.OrderRecord, applied models.DateRange) models.SummaryBundle {
	bundle := models.SummaryBundle{
		Range:          applied,
		DailyOrders:    DailyOrders(records),
		Categories:     CategoryPopularity(records),
		Cities:         CityOrders(records),
		PaymentMethods: PaymentMethods(records),
		RecordCount:    len(records),
	}
	bundle.PaymentOverview = SummarizePayments(bundle.PaymentMethods)

	for _, day := range bundle.DailyOrders {
		bundle.TotalOrders += day.DistinctOrderCount
		bundle.TotalRevenue += day.RevenueSum
	}
	return bundle
}

func head[T any](rows []T, n int) []T {
	if n <= 0 || n >= len(rows) {
		return slices.Clone(rows)
	}
	return slices.Clone(rows[:n])
}
