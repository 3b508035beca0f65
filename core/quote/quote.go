// Package quote - The quote aggregate the wizard collects step by step.
// A Quote holds the client's contact details, the event and the pricing
// selection. It is priced on demand and never stored.
package quote

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"retreat-quote/core/pricing"
	"retreat-quote/core/ratetable"
	"retreat-quote/core/types"
	qerrors "retreat-quote/internal/errors"
)

// Wizard steps
const (
	StepClient       = 1
	StepEvent        = 2
	StepRecap        = 3
	StepParticipants = 4
	StepRoom         = 5
	StepMaterials    = 6
	StepStaff        = 7
	StepFinal        = 8
)

// Collector bounds
const (
	MinParticipants = 8
	MaxParticipants = 29
)

var clockTime = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Client is the person requesting the quote
type Client struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	EventName string `json:"event_name,omitempty"`
	Consent   bool   `json:"consent"`
}

// FullName returns "First Last"
func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Event describes what is being hosted and when
type Event struct {
	Activity types.Activity `json:"activity"`
	types.EventDates
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// Quote is one client's simulation
type Quote struct {
	ID        string          `json:"id"`
	Step      int             `json:"step,omitempty"`
	Client    Client          `json:"client"`
	Event     Event           `json:"event"`
	Selection types.Selection `json:"selection"`

	// Question is free text the client asks the venue from the last step
	Question string `json:"question,omitempty"`
}

// New starts a quote with a fresh id and the default selection
func New() *Quote {
	return &Quote{
		ID:        uuid.NewString(),
		Step:      StepClient,
		Selection: types.DefaultSelection(),
	}
}

// EnsureID assigns an id to a quote that arrived without one
func (q *Quote) EnsureID() {
	if strings.TrimSpace(q.ID) == "" {
		q.ID = uuid.NewString()
	}
}

// Ref is the short reference printed on documents
func (q *Quote) Ref() string {
	return prefix(q.ID, 8)
}

// AttachmentName is the file name of the quote document
func (q *Quote) AttachmentName() string {
	return "Devis_Celeste_" + prefix(q.ID, 6) + ".pdf"
}

// Price computes the breakdown for the quote's selection and dates
func (q *Quote) Price(rates *ratetable.RateTable) (*types.Breakdown, error) {
	return pricing.Compute(q.Selection, q.Event.EventDates, rates)
}

// Validate applies every collector rule
func (q *Quote) Validate() error {
	return q.ValidateThrough(StepFinal)
}

// ValidateThrough applies the rules of every step up to and including step.
// Steps not reached yet are not checked.
func (q *Quote) ValidateThrough(step int) error {
	problems := map[string]string{}

	if step >= StepClient {
		q.Client.validate(problems)
	}
	if step >= StepEvent {
		q.Event.validate(problems)
	}
	validateSelection(q.Selection, step, problems)

	if len(problems) == 0 {
		return nil
	}
	return qerrors.Validation(problems)
}

// ValidateSelection applies the selection rules alone. Live pricing calls it
// before the client has filled in contact details.
func (q *Quote) ValidateSelection() error {
	problems := map[string]string{}
	validateSelection(q.Selection, StepFinal, problems)
	if len(problems) == 0 {
		return nil
	}
	return qerrors.Validation(problems)
}

func validateSelection(s types.Selection, step int, problems map[string]string) {
	if step >= StepParticipants {
		if s.Participants < MinParticipants || s.Participants > MaxParticipants {
			problems["selection.participants"] = "must be between 8 and 29"
		}
		if !s.Formula.IsValid() {
			problems["selection.formula"] = "unknown formula"
		}
	}
	if step >= StepRoom && !s.Room.IsValid() {
		problems["selection.room"] = "unknown room"
	}
	if step >= StepMaterials && !s.MaterialPaidBy.OrDefault().IsValid() {
		problems["selection.material_paid_by"] = "must be organizer or participant"
	}
	if step >= StepStaff && s.StaffCount != 1 && s.StaffCount != 2 {
		problems["selection.staff_count"] = "must be 1 or 2"
	}
}

func (c Client) validate(problems map[string]string) {
	if utf8.RuneCountInString(strings.TrimSpace(c.FirstName)) < 2 {
		problems["client.first_name"] = "required"
	}
	if utf8.RuneCountInString(strings.TrimSpace(c.LastName)) < 2 {
		problems["client.last_name"] = "required"
	}
	if _, err := mail.ParseAddress(c.Email); err != nil || !strings.Contains(c.Email, "@") {
		problems["client.email"] = "invalid email"
	}
	if utf8.RuneCountInString(strings.TrimSpace(c.Phone)) < 10 {
		problems["client.phone"] = "phone number required"
	}
	if !c.Consent {
		problems["client.consent"] = "consent is required"
	}
}

func (e Event) validate(problems map[string]string) {
	if !e.Activity.IsValid() {
		problems["event.activity"] = "unknown activity"
	}
	if e.Start.IsZero() {
		problems["event.start_date"] = "required"
	}
	if e.End.IsZero() {
		problems["event.end_date"] = "required"
	} else if !e.Start.IsZero() && !e.End.After(e.Start.Time) {
		problems["event.end_date"] = "must be after the start date"
	}
	if !clockTime.MatchString(e.StartTime) {
		problems["event.start_time"] = "expected HH:MM"
	}
	if !clockTime.MatchString(e.EndTime) {
		problems["event.end_time"] = "expected HH:MM"
	}
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
