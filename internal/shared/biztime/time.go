// Package biztime centralizes how the service reads the clock and stores instants.
package biztime

import "time"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ToMillis converts t to Unix milliseconds, the storage representation.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts Unix milliseconds back to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// PtrToMillis converts an optional instant; nil stays nil.
func PtrToMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := ToMillis(*t)
	return &ms
}

// PtrFromMillis converts an optional stored instant; nil stays nil.
func PtrFromMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := FromMillis(*ms)
	return &t
}
