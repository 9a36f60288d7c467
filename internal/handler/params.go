package handler

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// localLayouts carry no zone and are read as server local time. The last one
// is what browser datetime-local inputs send.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseDeparture returns the zero time for an empty value and ok=false when
// the value cannot be parsed.
func parseDeparture(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// wholeNumber converts a decoded JSON value into an int. It returns nil for
// missing values, for anything that is not a whole number and for values
// outside the 32-bit range of the integer columns.
func wholeNumber(v any) *int {
	switch n := v.(type) {
	case nil, bool:
		return nil
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return nil
		}
		i := int(n)
		return &i
	case string:
		s := strings.TrimSpace(n)
		if s == "" || strings.Contains(s, ".") {
			return nil
		}
		return int32Value(cast.ToInt64E(s))
	default:
		return int32Value(cast.ToInt64E(n))
	}
}

func int32Value(n int64, err error) *int {
	if err != nil || n > math.MaxInt32 || n < math.MinInt32 {
		return nil
	}
	i := int(n)
	return &i
}
