package beeper

import "time"

// record is one loosely-typed backend object. The Desktop API exposes some
// fields under several alternate names and omits others entirely, so every
// read goes through an ordered candidate list with a typed default.
type record map[string]any

// stringOr returns the first candidate present as a string, or def.
func (r record) stringOr(def string, names ...string) string {
	for _, n := range names {
		if s, ok := r[n].(string); ok {
			return s
		}
	}
	return def
}

// boolOr returns the first candidate present as a bool, or def.
func (r record) boolOr(def bool, names ...string) bool {
	for _, n := range names {
		if b, ok := r[n].(bool); ok {
			return b
		}
	}
	return def
}

// intOr returns the first candidate present as an integer, or def.
// JSON numbers decode as float64; null is treated as absent.
func (r record) intOr(def int, names ...string) int {
	for _, n := range names {
		switch v := r[n].(type) {
		case float64:
			return int(v)
		case int:
			return v
		case int64:
			return int(v)
		}
	}
	return def
}

// millisOr returns the first usable candidate as epoch milliseconds.
// Numbers are taken as already-epoch-ms; RFC 3339 strings are converted,
// truncating to whole milliseconds. Unusable values are skipped.
func (r record) millisOr(def int64, names ...string) int64 {
	for _, n := range names {
		switch v := r[n].(type) {
		case float64:
			return int64(v)
		case int:
			return int64(v)
		case int64:
			return v
		case string:
			if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
				return ts.UnixMilli()
			}
		}
	}
	return def
}

// sub returns the first candidate that is itself a record, or nil.
// Reads on a nil record yield the defaults.
func (r record) sub(names ...string) record {
	for _, n := range names {
		if m, ok := r[n].(map[string]any); ok {
			return record(m)
		}
	}
	return nil
}
