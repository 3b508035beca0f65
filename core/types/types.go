// Package types defines core domain types shared across all layers.
// This package contains NO pricing logic - only type definitions and parsing.
package types

import (
	"strings"

	qerrors "retreat-quote/internal/errors"
)

// Formula is a service tier. It controls the nightly room-and-board rate
// and which add-ons are included free.
type Formula string

const (
	FormulaBasic        Formula = "basic"
	FormulaAllInclusive Formula = "all_inclusive"
	FormulaPremium      Formula = "premium"
)

// Formulas lists every formula in ascending tier order
var Formulas = []Formula{FormulaBasic, FormulaAllInclusive, FormulaPremium}

// Keys from the first version of the booking form are still accepted on input.
var formulaAliases = map[string]Formula{
	"essentiel":   FormulaBasic,
	"venez_leger": FormulaAllInclusive,
	"cocooning":   FormulaPremium,
}

// String returns the string representation
func (f Formula) String() string {
	return string(f)
}

// IsValid checks if the formula is in the catalog
func (f Formula) IsValid() bool {
	switch f {
	case FormulaBasic, FormulaAllInclusive, FormulaPremium:
		return true
	default:
		return false
	}
}

// Next returns the formula one tier up, or false on the top tier
func (f Formula) Next() (Formula, bool) {
	for i, candidate := range Formulas {
		if candidate == f && i+1 < len(Formulas) {
			return Formulas[i+1], true
		}
	}
	return "", false
}

// Label returns the display name used on documents
func (f Formula) Label() string {
	switch f {
	case FormulaBasic:
		return "Essentiel"
	case FormulaAllInclusive:
		return "Venez Léger"
	case FormulaPremium:
		return "Cocooning"
	default:
		return string(f)
	}
}

// ParseFormula parses a formula key
func ParseFormula(s string) (Formula, error) {
	key := normalizeKey(s)
	if f := Formula(key); f.IsValid() {
		return f, nil
	}
	if f, ok := formulaAliases[key]; ok {
		return f, nil
	}
	return "", qerrors.UnrecognizedKey("formula", s)
}

// UnmarshalText rejects keys outside the catalog at decode time
func (f *Formula) UnmarshalText(text []byte) error {
	parsed, err := ParseFormula(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Room is a practice space
type Room string

const (
	RoomA    Room = "room_a"
	RoomB    Room = "room_b"
	RoomBoth Room = "room_a_room_b"
)

// Rooms lists every practice space
var Rooms = []Room{RoomA, RoomB, RoomBoth}

var roomAliases = map[string]Room{
	"pina":       RoomA,
	"patio":      RoomB,
	"pina_patio": RoomBoth,
}

// String returns the string representation
func (r Room) String() string {
	return string(r)
}

// IsValid checks if the room is in the catalog
func (r Room) IsValid() bool {
	switch r {
	case RoomA, RoomB, RoomBoth:
		return true
	default:
		return false
	}
}

// Label returns the display name used on documents
func (r Room) Label() string {
	switch r {
	case RoomA:
		return "Pina"
	case RoomB:
		return "Patio"
	case RoomBoth:
		return "Pina + Patio"
	default:
		return string(r)
	}
}

// ParseRoom parses a room key
func ParseRoom(s string) (Room, error) {
	key := normalizeKey(s)
	if r := Room(key); r.IsValid() {
		return r, nil
	}
	if r, ok := roomAliases[key]; ok {
		return r, nil
	}
	return "", qerrors.UnrecognizedKey("room", s)
}

// UnmarshalText rejects keys outside the catalog at decode time
func (r *Room) UnmarshalText(text []byte) error {
	parsed, err := ParseRoom(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Payer is the billing party that carries the materials charges
type Payer string

const (
	PayerOrganizer   Payer = "organizer"
	PayerParticipant Payer = "participant"
)

// String returns the string representation
func (p Payer) String() string {
	return string(p)
}

// IsValid checks if the payer is known
func (p Payer) IsValid() bool {
	return p == PayerOrganizer || p == PayerParticipant
}

// OrDefault returns the organizer when the payer was never chosen
func (p Payer) OrDefault() Payer {
	if p == "" {
		return PayerOrganizer
	}
	return p
}

// ParsePayer parses a payer key
func ParsePayer(s string) (Payer, error) {
	key := normalizeKey(s)
	if key == "" {
		return PayerOrganizer, nil
	}
	if p := Payer(key); p.IsValid() {
		return p, nil
	}
	return "", qerrors.UnrecognizedKey("payer", s)
}

// UnmarshalText rejects keys outside the catalog at decode time
func (p *Payer) UnmarshalText(text []byte) error {
	parsed, err := ParsePayer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// GroupBand is a participant-count range used for facilitator discounts
type GroupBand string

const (
	BandSmall  GroupBand = "small"
	BandMedium GroupBand = "medium"
	BandLarge  GroupBand = "large"
)

// Bands lists every band from smallest to largest
var Bands = []GroupBand{BandSmall, BandMedium, BandLarge}

// String returns the string representation
func (b GroupBand) String() string {
	return string(b)
}

// Activity is the kind of event being hosted
type Activity string

const (
	ActivityYoga       Activity = "yoga"
	ActivityMeditation Activity = "meditation"
	ActivityPersonal   Activity = "dev_perso"
	ActivitySeminar    Activity = "seminaire"
	ActivityOther      Activity = "autre"
)

// IsValid checks if the activity is known
func (a Activity) IsValid() bool {
	switch a {
	case ActivityYoga, ActivityMeditation, ActivityPersonal, ActivitySeminar, ActivityOther:
		return true
	default:
		return false
	}
}

// Label returns the display label used on documents
func (a Activity) Label() string {
	switch a {
	case ActivityYoga:
		return "Yoga"
	case ActivityMeditation:
		return "Méditation"
	case ActivityPersonal:
		return "Développement personnel"
	case ActivitySeminar:
		return "Séminaire"
	case ActivityOther:
		return "Autre"
	default:
		return string(a)
	}
}

func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}
