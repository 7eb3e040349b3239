package services

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"orders-dashboard/internal/errors"
	"orders-dashboard/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RangeQuery is a requested date range after date parsing.
type RangeQuery struct {
	Start time.Time `validate:"required"`
	End   time.Time `validate:"required,gtefield=Start"`
}

// ParseRange turns YYYY-MM-DD strings into a DateRange. Two empty strings select the
// whole dataset and yield a zero range.
func ParseRange(start, end string) (models.DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return models.DateRange{}, nil
	}

	var q RangeQuery
	var err error
	if start != "" {
		if q.Start, err = time.Parse(time.DateOnly, start); err != nil {
			return models.DateRange{}, errors.ValidationWrap(err, fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", start))
		}
	}
	if end != "" {
		if q.End, err = time.Parse(time.DateOnly, end); err != nil {
			return models.DateRange{}, errors.ValidationWrap(err, fmt.Sprintf("invalid end date %q, expected YYYY-MM-DD", end))
		}
	}

	if err := validate.Struct(q); err != nil {
		return models.DateRange{}, errors.ValidationWrap(err, rangeMessage(err))
	}
	return models.DateRange{Start: q.Start, End: q.End}, nil
}

func rangeMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			switch fe.Tag() {
			case "required":
				return "both a start and an end date are required"
			case "gtefield":
				return "start date must not be after end date"
			}
		}
	}
	return "invalid date range"
}
