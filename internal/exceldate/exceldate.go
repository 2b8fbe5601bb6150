// Package exceldate converts spreadsheet date serials into calendar dates.
//
// The source workbooks use the 1900-based epoch where day 0 is 1899-12-30,
// so serial 25569 is 1970-01-01. Serials below 1 fall into the epoch's
// broken leap-year region and are treated as absent.
package exceldate

import "time"

// unixEpochSerial is the serial of 1970-01-01 UTC.
const unixEpochSerial = 25569

const secondsPerDay = 86400

// FromSerial converts a date serial into a calendar date anchored in loc.
// Returns nil when serial < 1. The raw instant lands on UTC midnight of the
// intended day; rebuilding it in loc keeps the calendar date stable no
// matter what timezone the process runs in.
func FromSerial(serial float64, loc *time.Location) *time.Time {
	if serial < 1 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	utc := time.Unix(int64((serial-unixEpochSerial)*secondsPerDay), 0).UTC()
	t := time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), utc.Minute(), utc.Second(), 0, loc)
	return &t
}

// Decode is the lenient entry point for raw cell values. Anything that is
// not a number (blank cells, strings, booleans) decodes to nil, matching
// the row-leniency policy: absent data is nil, never an error.
func Decode(v any, loc *time.Location) *time.Time {
	serial, ok := toFloat(v)
	if !ok {
		return nil
	}
	return FromSerial(serial, loc)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
