package activity

import (
	"fmt"
	"time"
)

// DayKeyLayout is the canonical day-key format, e.g. "2024-03-17".
// String ordering equals chronological ordering.
const DayKeyLayout = "2006-01-02"

// Bucketer maps instants to day keys in one fixed reference timezone.
// The host zone is never consulted, so the same instant always yields the
// same key regardless of where the process runs.
type Bucketer struct {
	loc *time.Location
}

func NewBucketer(loc *time.Location) *Bucketer {
	if loc == nil {
		loc = time.UTC
	}
	return &Bucketer{loc: loc}
}

// Key returns the day key for t in the reference timezone.
func (b *Bucketer) Key(t time.Time) string {
	return t.In(b.loc).Format(DayKeyLayout)
}

func (b *Bucketer) Location() *time.Location {
	return b.loc
}

// ParseDayKey parses a day key strictly. Day arithmetic is done on the
// date-only value in UTC, so gaps are exact whole days with no DST ambiguity.
func ParseDayKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDayKey, s)
	}
	return t, nil
}

func ValidDayKey(s string) bool {
	_, err := ParseDayKey(s)
	return err == nil
}

// DaysBetween returns b minus a in whole days. Ledger keys are validated on
// write; a corrupt key is treated as an unbridgeable gap so it breaks a run
// instead of extending one.
func DaysBetween(a, b string) int {
	ta, errA := ParseDayKey(a)
	tb, errB := ParseDayKey(b)
	if errA != nil || errB != nil {
		return 1 << 30
	}
	return int(tb.Sub(ta) / (24 * time.Hour))
}
