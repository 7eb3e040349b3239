// Package dataset holds the order-item table loaded from the merged CSV file and the
// date-range filter over it.
package dataset

import (
	"slices"
	"sort"
	"time"

	"orders-dashboard/internal/errors"
	"orders-dashboard/internal/models"
)

// Dataset is an ordered, read-only sequence of order records sorted ascending by
// purchase timestamp. A filtered Dataset shares storage with the one it came from.
type Dataset struct {
	records []models.OrderRecord
}

// New copies records, sorts them by purchase timestamp (equal timestamps keep their
// input order) and assigns a fresh positional index. Timestamps are reduced to their
// wall clock in UTC, the same way ParseTimestamp stores them, so sort order and
// calendar day always agree.
func New(records []models.OrderRecord) *Dataset {
	sorted := slices.Clone(records)
	for i := range sorted {
		sorted[i].PurchaseTimestamp = wallClockUTC(sorted[i].PurchaseTimestamp)
	}
	slices.SortStableFunc(sorted, func(a, b models.OrderRecord) int {
		return a.PurchaseTimestamp.Compare(b.PurchaseTimestamp)
	})
	for i := range sorted {
		sorted[i].Index = i
	}
	return &Dataset{records: sorted}
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns the underlying rows. Callers must not modify them.
func (d *Dataset) Records() []models.OrderRecord {
	if d == nil {
		return nil
	}
	return d.records
}

// Bounds returns the first and last purchase day. ok is false for an empty dataset.
func (d *Dataset) Bounds() (first, last time.Time, ok bool) {
	if d.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	return Day(d.records[0].PurchaseTimestamp), Day(d.records[len(d.records)-1].PurchaseTimestamp), true
}

// FullRange is the DateRange covering every record.
func (d *Dataset) FullRange() models.DateRange {
	first, last, _ := d.Bounds()
	return models.DateRange{Start: first, End: last}
}

// Filter keeps the records whose purchase day lies within [r.Start, r.End], both ends
// inclusive. A missing bound is a validation error; an inverted range yields an empty
// dataset.
func (d *Dataset) Filter(r models.DateRange) (*Dataset, error) {
	if err := CheckBounds(r); err != nil {
		return nil, err
	}

	start, end := Day(r.Start), Day(r.End)
	if start.After(end) {
		return &Dataset{records: []models.OrderRecord{}}, nil
	}

	records := d.Records()
	lo := sort.Search(len(records), func(i int) bool {
		return !Day(records[i].PurchaseTimestamp).Before(start)
	})
	hi := sort.Search(len(records), func(i int) bool {
		return Day(records[i].PurchaseTimestamp).After(end)
	})
	if hi < lo {
		hi = lo
	}
	return &Dataset{records: records[lo:hi:hi]}, nil
}

// CheckBounds reports a validation error when either end of r is missing.
func CheckBounds(r models.DateRange) error {
	if r.Start.IsZero() {
		return errors.Validation("date range start is required")
	}
	if r.End.IsZero() {
		return errors.Validation("date range end is required")
	}
	return nil
}

func wallClockUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Day truncates t to its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
