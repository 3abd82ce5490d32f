package kernel

import "time"

// Window field selection bits.
const (
	WindowBegin FieldMask = 0x00000001
	WindowEnd   FieldMask = 0x00000002
)

// Window is the span of time allocated for a pickup or dropoff. Both ends
// are stored as milliseconds since January 1, 1970 UTC, which is also their
// wire encoding. The zero value is the unset window.
type Window struct {
	begin int64
	end   int64
}

// Begin returns the window start in epoch milliseconds.
func (w Window) Begin() int64 {
	return w.begin
}

// End returns the window end in epoch milliseconds.
func (w Window) End() int64 {
	return w.end
}

// BeginTime returns the window start as a time.Time in UTC.
func (w Window) BeginTime() time.Time {
	return time.UnixMilli(w.begin).UTC()
}

// EndTime returns the window end as a time.Time in UTC.
func (w Window) EndTime() time.Time {
	return time.UnixMilli(w.end).UTC()
}

// SetBegin sets the window start in epoch milliseconds.
func (w *Window) SetBegin(millis int64) {
	w.begin = millis
}

// SetEnd sets the window end in epoch milliseconds.
func (w *Window) SetEnd(millis int64) {
	w.end = millis
}

// SetBeginTime sets the window start from a time.Time.
func (w *Window) SetBeginTime(t time.Time) {
	w.begin = t.UnixMilli()
}

// SetEndTime sets the window end from a time.Time.
func (w *Window) SetEndTime(t time.Time) {
	w.end = t.UnixMilli()
}

// Validate checks the fields requested by the mask and returns the bits of
// those that failed. Either end is invalid while unset; when both ends are
// requested together the window must not end before it begins, and an
// inverted window marks both bits.
func (w Window) Validate(mask FieldMask) FieldMask {
	invalid := FieldMaskNone

	if mask.Has(WindowBegin) && w.begin == 0 {
		invalid = invalid.With(WindowBegin)
	}
	if mask.Has(WindowEnd) && w.end == 0 {
		invalid = invalid.With(WindowEnd)
	}
	if mask.Has(WindowBegin) && mask.Has(WindowEnd) {
		if w.begin > w.end {
			invalid = invalid.With(WindowBegin | WindowEnd)
		}
	}

	return invalid
}

// IsEqual compares two windows field for field.
func (w Window) IsEqual(other Window) bool {
	return w == other
}

// WriteJSON copies the requested fields into target under their canonical
// keys and returns target.
func (w Window) WriteJSON(target map[string]any, mask FieldMask) map[string]any {
	if mask.Has(WindowBegin) {
		target["begin"] = w.begin
	}
	if mask.Has(WindowEnd) {
		target["end"] = w.end
	}
	return target
}

// ReadJSON populates the ends from the keys present in source. Each end
// accepts a raw millisecond number or an RFC 3339 string. It returns the
// bits of the fields that failed to parse.
func (w *Window) ReadJSON(source map[string]any) FieldMask {
	invalid := FieldMaskNone

	if raw, ok := source["begin"]; ok {
		if millis, okTS := AsTimestamp(raw); okTS {
			w.SetBegin(millis)
		} else {
			invalid = invalid.With(WindowBegin)
		}
	}
	if raw, ok := source["end"]; ok {
		if millis, okTS := AsTimestamp(raw); okTS {
			w.SetEnd(millis)
		} else {
			invalid = invalid.With(WindowEnd)
		}
	}

	return invalid
}
