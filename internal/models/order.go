package models

import "time"

// OrderRecord is one line item of a purchase. Several records may share an OrderID.
// Missing numeric cells are NaN.
type OrderRecord struct {
	Index             int
	OrderID           string
	PurchaseTimestamp time.Time
	Price             float64
	CustomerCity      string
	ProductCategory   string
	PaymentType       string
	PaymentValue      float64
}

// DateRange is an inclusive range of calendar days. Time of day is ignored.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

type DailyOrders struct {
	Day                time.Time `json:"day"`
	DistinctOrderCount int       `json:"distinct_order_count"`
	RevenueSum         float64   `json:"revenue_sum"`
}

type CategoryPopularity struct {
	CategoryName string `json:"category_name"`
	ItemCount    int    `json:"item_count"`
}

type CityOrders struct {
	City       string `json:"city"`
	OrderCount int    `json:"order_count"`
}

type PaymentMethodStats struct {
	PaymentType      string  `json:"payment_type"`
	RecordCount      int     `json:"record_count"`
	MeanPaymentValue float64 `json:"mean_payment_value"`
	TotalPrice       float64 `json:"total_price"`
}

// PaymentOverview averages the payment table columns across payment types.
type PaymentOverview struct {
	MeanRecordCount      float64 `json:"mean_record_count"`
	MeanOfMeanPayment    float64 `json:"mean_of_mean_payment"`
	MeanTotalPrice       float64 `json:"mean_total_price"`
	PaymentTypesObserved int     `json:"payment_types_observed"`
}

// SummaryBundle is everything the dashboard renders for one date range.
type SummaryBundle struct {
	Range           DateRange            `json:"range"`
	DailyOrders     []DailyOrders        `json:"daily_orders"`
	Categories      []CategoryPopularity `json:"categories"`
	Cities          []CityOrders         `json:"cities"`
	PaymentMethods  []PaymentMethodStats `json:"payment_methods"`
	PaymentOverview PaymentOverview      `json:"payment_overview"`
	TotalOrders     int                  `json:"total_orders"`
	TotalRevenue    float64              `json:"total_revenue"`
	RecordCount     int                  `json:"record_count"`
}
