package goorm

import "fmt"

// Range is the nearest idiomatic analog of the Python slice the source
// accepts for Limit: an optional offset and an optional stop, with no
// step (a step value other than "missing" is a source-only concept
// and has no Go equivalent to preserve, so it is simply not
// representable here).
type Range struct {
	Offset *int
	Stop   *int
}

// Limit renders SQLite's `limit offset, count` clause, or the
// single-argument `limit count` form when constructed from a row
// count with no offset.
type Limit struct {
	offset *int
	count  *int
}

// NewLimitN constructs "first n rows".
func NewLimitN(n int) Limit {
	return Limit{count: &n}
}

// NewLimitRange constructs a Limit from an offset/stop range,
// validating the rules from the source:
//   - negative offset or stop -> InvalidLimit (not-implemented kind
//     in the source; folded into the single InvalidLimit kind here)
//   - stop < offset -> InvalidLimit
func NewLimitRange(r Range) (Limit, error) {
	if r.Offset != nil && *r.Offset < 0 {
		return Limit{}, newErr(InvalidLimit, "negative offset not supported")
	}
	if r.Stop != nil && *r.Stop < 0 {
		return Limit{}, newErr(InvalidLimit, "negative stop not supported")
	}
	if r.Offset != nil && r.Stop != nil && *r.Stop < *r.Offset {
		return Limit{}, newErr(InvalidLimit, "stop must be greater than or equal to offset")
	}
	l := Limit{offset: r.Offset}
	switch {
	case r.Stop == nil:
		l.count = nil
	case r.Offset == nil:
		stop := *r.Stop
		l.count = &stop
	default:
		count := *r.Stop - *r.Offset
		l.count = &count
	}
	return l, nil
}

func (l Limit) Render() string {
	switch {
	case l.offset == nil && l.count == nil:
		return ""
	case l.offset == nil:
		return fmt.Sprintf("limit %d", *l.count)
	case l.count == nil:
		return fmt.Sprintf("limit %d, -1", *l.offset)
	default:
		return fmt.Sprintf("limit %d, %d", *l.offset, *l.count)
	}
}

func (l Limit) Args() []any { return nil }

func (l Limit) OffsetOrZero() int {
	if l.offset == nil {
		return 0
	}
	return *l.offset
}

// CountOrInf returns the row count, or nil if unbounded.
func (l Limit) CountOrInf() *int { return l.count }
