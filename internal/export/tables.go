// Package export writes a SummaryBundle to files: an XLSX workbook with one sheet per
// table, or a SQLite database with one SQL table per table.
package export

import (
	"orders-dashboard/internal/models"
	"orders-dashboard/internal/ui/format"
)

type column struct {
	name    string
	header  string
	sqlType string
}

type table struct {
	name    string
	sheet   string
	columns []column
	rows    [][]any
}

// tables lays a bundle out as flat tables. Both writers share this layout.
func tables(b models.SummaryBundle) []table {
	overview := b.PaymentOverview

	summary := table{
		name:  "run_info",
		sheet: "Summary",
		columns: []column{
			{"range_start", "Start", "TEXT"},
			{"range_end", "End", "TEXT"},
			{"record_count", "Records", "INTEGER"},
			{"total_orders", "Total orders", "INTEGER"},
			{"total_revenue", "Total revenue", "REAL"},
			{"payment_types", "Payment types", "INTEGER"},
			{"mean_record_count", "Mean buyers per payment type", "REAL"},
			{"mean_of_mean_payment", "Mean of mean payment value", "REAL"},
			{"mean_total_price", "Mean total price", "REAL"},
		},
		rows: [][]any{{
			format.DateLabel(b.Range.Start),
			format.DateLabel(b.Range.End),
			b.RecordCount,
			b.TotalOrders,
			b.TotalRevenue,
			overview.PaymentTypesObserved,
			overview.MeanRecordCount,
			overview.MeanOfMeanPayment,
			overview.MeanTotalPrice,
		}},
	}

	daily := table{
		name:  "daily_orders",
		sheet: "Daily Orders",
		columns: []column{
			{"day", "Day", "TEXT"},
			{"distinct_order_count", "Distinct orders", "INTEGER"},
			{"revenue_sum", "Revenue", "REAL"},
		},
	}
	for _, row := range b.DailyOrders {
		daily.rows = append(daily.rows, []any{format.DateLabel(row.Day), row.DistinctOrderCount, row.RevenueSum})
	}

	categories := table{
		name:  "category_popularity",
		sheet: "Categories",
		columns: []column{
			{"category_name", "Category", "TEXT"},
			{"item_count", "Items", "INTEGER"},
		},
	}
	for _, row := range b.Categories {
		categories.rows = append(categories.rows, []any{row.CategoryName, row.ItemCount})
	}

	cities := table{
		name:  "city_orders",
		sheet: "Cities",
		columns: []column{
			{"city", "City", "TEXT"},
			{"order_count", "Orders", "INTEGER"},
		},
	}
	for _, row := range b.Cities {
		cities.rows = append(cities.rows, []any{row.City, row.OrderCount})
	}

	payments := table{
		name:  "payment_methods",
		sheet: "Payment Methods",
		columns: []column{
			{"payment_type", "Payment type", "TEXT"},
			{"record_count", "Records", "INTEGER"},
			{"mean_payment_value", "Mean payment value", "REAL"},
			{"total_price", "Total price", "REAL"},
		},
	}
	for _, row := range b.PaymentMethods {
		payments.rows = append(payments.rows, []any{row.PaymentType, row.RecordCount, row.MeanPaymentValue, row.TotalPrice})
	}

	return []table{summary, daily, categories, cities, payments}
}
