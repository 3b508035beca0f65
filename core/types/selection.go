package types

import (
	"encoding/json"
	"strings"
	"time"

	qerrors "retreat-quote/internal/errors"
)

// DateLayout is the calendar date format used on the wire
const DateLayout = "2006-01-02"

// Selection is the full set of client choices needed for pricing.
// It is an immutable snapshot: the engine never modifies it.
type Selection struct {
	Participants        int     `json:"participants"`
	Formula             Formula `json:"formula"`
	Room                Room    `json:"room"`
	Heater              bool    `json:"heater"`
	IndividualEquipment bool    `json:"individual_equipment"`
	AudioVideo          bool    `json:"audio_video"`
	MaterialPaidBy      Payer   `json:"material_paid_by"`
	Privatization       bool    `json:"privatization"`
	StaffCount          int     `json:"staff_count"`
}

// DefaultSelection is the selection a new quote starts from
func DefaultSelection() Selection {
	return Selection{
		Participants:   8,
		Formula:        FormulaBasic,
		Room:           RoomA,
		MaterialPaidBy: PayerOrganizer,
		StaffCount:     1,
	}
}

// WithFormula returns a copy of the selection on another formula
func (s Selection) WithFormula(f Formula) Selection {
	s.Formula = f
	return s
}

// Date is a calendar date. The zero value means "not chosen yet".
type Date struct {
	time.Time
}

// NewDate builds a date at midnight UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, qerrors.Input("invalid date "+s, err)
	}
	return Date{Time: t}, nil
}

// MarshalJSON writes the date as YYYY-MM-DD, or null when unset
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON reads YYYY-MM-DD, RFC 3339 or null
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return qerrors.Input("date must be a string", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// EventDates is the stay's date range
type EventDates struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

// Nights returns the number of nights in the stay. It is 0 when either
// date is missing and never negative: a reversed range counts as empty.
func (d EventDates) Nights() int {
	if d.Start.IsZero() || d.End.IsZero() {
		return 0
	}
	n := calendarDaysBetween(d.End.Time, d.Start.Time)
	if n < 0 {
		return 0
	}
	return n
}

// calendarDaysBetween counts calendar days from start to end, ignoring
// time of day.
func calendarDaysBetween(end, start time.Time) int {
	ys, ms, ds := start.Date()
	ye, me, de := end.Date()
	s := time.Date(ys, ms, ds, 0, 0, 0, 0, time.UTC)
	e := time.Date(ye, me, de, 0, 0, 0, 0, time.UTC)
	return int((e.Unix() - s.Unix()) / 86400)
}
