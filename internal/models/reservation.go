package models

import (
	"fmt"
	"strings"
	"time"
)

// Reservation is one stored time block. Start and End are minutes since
// midnight; Date is the YYYY-MM-DD day the block belongs to. Records are
// immutable after insert, deletion is the only update.
type Reservation struct {
	ID             int64     `json:"id"`
	OfficeID       int64     `json:"office_id"`
	SpaceID        int64     `json:"space_id"`
	Date           string    `json:"date"`
	Start          int       `json:"-"`
	End            int       `json:"-"`
	VisitorName    string    `json:"visitor_name,omitempty"`
	VisitorPlate   string    `json:"visitor_plate,omitempty"`
	VisitorCompany string    `json:"visitor_company,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// StartClock returns the start as an HH:MM string.
func (r *Reservation) StartClock() string { return FormatClock(r.Start) }

// EndClock returns the end as an HH:MM string.
func (r *Reservation) EndClock() string { return FormatClock(r.End) }

// Duration returns the reserved span.
func (r *Reservation) Duration() time.Duration {
	return time.Duration(r.End-r.Start) * time.Minute
}

// OverlapsWith reports whether two reservations for the same space and
// date conflict. Half-open interval semantics: a block ending exactly
// where another starts does not conflict.
func (r *Reservation) OverlapsWith(other *Reservation) bool {
	if r.SpaceID != other.SpaceID || r.Date != other.Date {
		return false
	}
	return Overlaps(r.Start, r.End, other.Start, other.End)
}

// Overlaps is the half-open interval conflict predicate over minutes
// since midnight: [aStart, aEnd) and [bStart, bEnd) conflict iff
// aStart < bEnd && bStart < aEnd.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// ReservationGroup is a derived view of one or more contiguous
// reservations sharing office, space and date. It is recomputed on every
// read and never persisted; IDs keeps the underlying records so a group
// can be deleted as a unit.
type ReservationGroup struct {
	OfficeID   int64   `json:"office_id"`
	SpaceID    int64   `json:"space_id"`
	Date       string  `json:"date"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Minutes    int     `json:"minutes"`
	IDs        []int64 `json:"ids"`
	Aggregated bool    `json:"aggregated"`
}

// ParseClock parses an HH:MM 24-hour string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate validates a YYYY-MM-DD date string and returns its canonical
// form plus the parsed day.
func ParseDate(s string) (string, time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d.Format("2006-01-02"), d, nil
}

// ParseBlockToken parses a "HH:MM-HH:MM" token as submitted by callers
// into start and end minutes. The start must precede the end.
func ParseBlockToken(token string) (start, end int, err error) {
	parts := strings.SplitN(strings.TrimSpace(token), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid block %q: expected HH:MM-HH:MM", token)
	}
	start, err = ParseClock(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid block %q: %w", token, err)
	}
	end, err = ParseClock(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid block %q: %w", token, err)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("invalid block %q: end must be after start", token)
	}
	return start, end, nil
}
