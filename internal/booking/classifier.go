package booking

import (
	"time"

	"github.com/Masterminds/squirrel"
)

// Predicate selects the bookings of one category at a fixed instant.
// Match evaluates it in memory; ToSql renders the same condition against the "b" alias of public.bookings.
type Predicate struct {
	match func(*Booking) bool
	sql   squirrel.Sqlizer
}

func (p Predicate) Match(b *Booking) bool {
	return p.match(b)
}

func (p Predicate) ToSql() (string, []interface{}, error) {
	return p.sql.ToSql()
}

// Filter returns the bookings of src matching p, preserving order.
func (p Predicate) Filter(src []*Booking) []*Booking {
	var out []*Booking
	for _, b := range src {
		if p.Match(b) {
			out = append(out, b)
		}
	}
	return out
}

// SelectPredicate maps a category and the current instant to a predicate.
// Boundaries are strict: a booking starting exactly at now is neither CURRENT nor FUTURE.
// Unknown categories select nothing.
func SelectPredicate(cat Category, now time.Time) Predicate {
	switch cat {
	case CategoryAll:
		return Predicate{
			match: func(*Booking) bool { return true },
			sql:   squirrel.Expr("TRUE"),
		}
	case CategoryCurrent:
		return Predicate{
			match: func(b *Booking) bool { return b.StartTime.Before(now) && b.EndTime.After(now) },
			sql:   squirrel.And{squirrel.Lt{"b.start_time": now}, squirrel.Gt{"b.end_time": now}},
		}
	case CategoryFuture:
		return Predicate{
			match: func(b *Booking) bool { return b.StartTime.After(now) },
			sql:   squirrel.Gt{"b.start_time": now},
		}
	case CategoryPast:
		return Predicate{
			match: func(b *Booking) bool { return b.EndTime.Before(now) },
			sql:   squirrel.Lt{"b.end_time": now},
		}
	case CategoryWaiting:
		return statusPredicate(StatusWaiting)
	case CategoryRejected:
		return statusPredicate(StatusRejected)
	default:
		return Predicate{
			match: func(*Booking) bool { return false },
			sql:   squirrel.Expr("FALSE"),
		}
	}
}

func statusPredicate(s Status) Predicate {
	return Predicate{
		match: func(b *Booking) bool { return b.Status == s },
		sql:   squirrel.Eq{"b.status": string(s)},
	}
}
