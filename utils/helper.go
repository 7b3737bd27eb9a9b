package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func ProcessValidationErrors(err error) map[string]string {
	errorResponse := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorResponse["_"] = err.Error()
		return errorResponse
	}
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

// UniqueSlice keeps the first occurrence of every element, in order.
func UniqueSlice[T comparable](slice []T) []T {
	seen := make(map[T]struct{}, len(slice))
	out := make([]T, 0, len(slice))
	for _, v := range slice {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ParseDecimal converts a string to a decimal.Decimal value.
func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}

var nonAmountChars = regexp.MustCompile(`[^\d.]`)

// ParseLooseAmount strips everything except digits and dots ("₹1,250.50" -> 1250.50).
// Unparseable input yields zero.
func ParseLooseAmount(value string) decimal.Decimal {
	d, err := ParseDecimal(nonAmountChars.ReplaceAllString(value, ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}

var (
	isoDatePrefix   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	slashDatePrefix = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseSheetTime accepts the timestamp shapes the gateway emits: ISO with zone,
// ISO without zone and plain dates.
func ParseSheetTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(time.Local), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDisplayDate renders sheet timestamps as dd/mm/yyyy. Values already in
// dd/mm/yyyy keep their date part; anything unparseable is returned unchanged.
func FormatDisplayDate(raw string) string {
	return DisplayDateOr(raw, strings.TrimSpace(raw))
}

// DisplayDateOr is FormatDisplayDate with an explicit result for blank or
// unparseable input.
func DisplayDateOr(raw string, fallback string) string {
	raw = strings.TrimSpace(raw)
	if slashDatePrefix.MatchString(raw) {
		return strings.SplitN(raw, " ", 2)[0]
	}
	if !isoDatePrefix.MatchString(raw) && !strings.Contains(raw, "T") {
		return fallback
	}
	t, ok := ParseSheetTime(raw)
	if !ok {
		return fallback
	}
	return t.Format("02/01/2006")
}

// FormatShortDate is FormatDisplayDate with a two digit year.
func FormatShortDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "/") {
		return raw
	}
	t, ok := ParseSheetTime(raw)
	if !ok {
		return raw
	}
	return t.Format("02/01/06")
}
