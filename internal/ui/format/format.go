// Package format turns summary numbers into display strings. Nothing here feeds back
// into computation.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Formatter struct {
	unit    currency.Unit
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter builds a formatter for an ISO 4217 currency code and a BCP 47 locale.
func NewFormatter(currencyCode, locale string) (*Formatter, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", currencyCode, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{
		unit:    unit,
		tag:     tag,
		printer: message.NewPrinter(tag),
	}, nil
}

func (f *Formatter) Locale() string   { return f.tag.String() }
func (f *Formatter) Currency() string { return f.unit.String() }

// Money renders v in the configured currency and locale, rounded to the currency's
// standard scale.
func (f *Formatter) Money(v float64) string {
	if !finite(v) {
		return "-"
	}
	scale, _ := currency.Standard.Rounding(f.unit)
	rounded := decimal.NewFromFloat(v).Round(int32(scale)).InexactFloat64()
	return f.printer.Sprintf("%v", currency.Symbol(f.unit.Amount(rounded)))
}

// Count renders an integer with the locale's digit grouping.
func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

// Decimal1 renders v rounded to one decimal place with locale separators.
func (f *Formatter) Decimal1(v float64) string {
	if !finite(v) {
		return "-"
	}
	return f.printer.Sprintf("%.1f", Round1(v))
}

// Round1 rounds half away from zero to one decimal place. Non-finite values pass through.
func Round1(v float64) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

// Round1String is Round1 rendered without locale rules, for ids and data attributes.
func Round1String(v float64) string {
	if !finite(v) {
		return "NaN"
	}
	return decimal.NewFromFloat(v).StringFixed(1)
}

func DateLabel(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ShortDateLabel is used on chart axes.
func ShortDateLabel(t time.Time) string {
	return t.Format("02 Jan")
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
