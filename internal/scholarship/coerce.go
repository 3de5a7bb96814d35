package scholarship

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func isNullText(s string) bool {
	return s == "" || strings.EqualFold(s, "null")
}

// CoerceNumber strips everything but digits, dots and minus signs and parses
// the rest. Empty, "null" and unparseable input give nil.
func CoerceNumber(raw string) *float64 {
	s := trim(raw)
	if isNullText(s) {
		return nil
	}
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func CoerceInt(raw string) *int {
	f := CoerceNumber(raw)
	if f == nil {
		return nil
	}
	v := int(math.Trunc(*f))
	return &v
}

func CoerceBoolean(raw string) *bool {
	var v bool
	switch strings.ToLower(trim(raw)) {
	case "true", "yes", "1":
		v = true
	case "false", "no", "0":
		v = false
	default:
		return nil
	}
	return &v
}

// NormalizeGender lower-cases; empty input stays empty.
func NormalizeGender(raw string) string {
	return strings.ToLower(trim(raw))
}

func DefaultStatus(raw string) string {
	if s := trim(raw); s != "" {
		return s
	}
	return StatusNotSelected
}

// NormalizeStatus maps anything other than "selected" to "Not Selected".
func NormalizeStatus(raw string) string {
	if strings.EqualFold(DefaultStatus(raw), StatusSelected) {
		return StatusSelected
	}
	return StatusNotSelected
}

func NormalizeEmail(raw string) string {
	return strings.ToLower(trim(raw))
}

func CoerceDate(raw string) *time.Time {
	s := trim(raw)
	if isNullText(s) {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func normalizeInstallmentStatus(raw string) string {
	if strings.EqualFold(trim(raw), InstallmentCompleted) {
		return InstallmentCompleted
	}
	return InstallmentPending
}
