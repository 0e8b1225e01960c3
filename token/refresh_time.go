package token

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// TypeError is returned when a refresh time is given as a type that can't be
// converted to a time.
type TypeError struct {
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("no implicit conversion of %T into Time", e.Value)
}

// refreshTimeLayouts are tried in order when parsing a string.
var refreshTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// ParseRefreshTime converts value to a UTC time. Accepted forms:
//   - nil or "" for no value
//   - time.Time or *time.Time
//   - an integer number of seconds since the Unix epoch: any signed or
//     unsigned integer type, an integral float, or a json.Number such as
//     "1709294400" or "1.7e9"
//   - an ISO-8601 string, with or without time and zone (no zone means UTC)
//
// Any other type yields a *TypeError.
func ParseRefreshTime(value any) (*time.Time, error) {
	var t time.Time

	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		t = *v
	case int:
		t = time.Unix(int64(v), 0)
	case int8:
		t = time.Unix(int64(v), 0)
	case int16:
		t = time.Unix(int64(v), 0)
	case int32:
		t = time.Unix(int64(v), 0)
	case int64:
		t = time.Unix(v, 0)
	case uint:
		t = time.Unix(int64(v), 0)
	case uint8:
		t = time.Unix(int64(v), 0)
	case uint16:
		t = time.Unix(int64(v), 0)
	case uint32:
		t = time.Unix(int64(v), 0)
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("refresh time %d out of range", v)
		}
		t = time.Unix(int64(v), 0)
	case float32:
		return ParseRefreshTime(float64(v))
	case float64:
		if v != math.Trunc(v) {
			return nil, &TypeError{Value: value}
		}
		t = time.Unix(int64(v), 0)
	case json.Number:
		if secs, err := v.Int64(); err == nil {
			t = time.Unix(secs, 0)
			break
		}
		f, err := v.Float64()
		if err != nil || f != math.Trunc(f) {
			return nil, &TypeError{Value: value}
		}
		t = time.Unix(int64(f), 0)
	case string:
		if v == "" {
			return nil, nil
		}
		parsed, err := parseTimeString(v)
		if err != nil {
			return nil, err
		}
		t = parsed
	default:
		return nil, &TypeError{Value: value}
	}

	t = t.UTC()
	return &t, nil
}

func parseTimeString(s string) (time.Time, error) {
	for _, layout := range refreshTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid refresh time %q", s)
}
