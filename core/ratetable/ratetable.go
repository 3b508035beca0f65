// Package ratetable - Versioned venue rate table.
// Every price the engine uses comes from a RateTable passed in explicitly.
// Lookups are keyed by the closed enums in core/types; a table that does not
// cover the whole catalog is rejected at load time.
package ratetable

import (
	"fmt"

	"github.com/shopspring/decimal"

	"retreat-quote/core/determinism"
	"retreat-quote/core/types"
	qerrors "retreat-quote/internal/errors"
)

// RateTable is read-only after Load or Default returns it
type RateTable struct {
	Version  string `json:"version"`
	Currency string `json:"currency"`

	Formulas map[types.Formula]FormulaRates `json:"formulas"`
	Rooms    map[types.Room]RoomRates       `json:"rooms"`

	Options OptionRates    `json:"options"`
	Venue   VenueRates     `json:"venue"`
	Bands   BandThresholds `json:"bands"`

	// Secondary is the share of the second facilitator's board the organizer pays
	Secondary BandPercents `json:"secondary_facilitator_percent"`
}

// FormulaRates holds everything a formula controls
type FormulaRates struct {
	Label string `json:"label"`

	// Nightly is the room-and-board rate per trainee per night
	Nightly decimal.Decimal `json:"nightly"`

	// RoomCapacity is how many trainees share one bedroom
	RoomCapacity int `json:"room_capacity"`

	DiscountedRoom     bool `json:"discounted_room"`
	HeaterAvailable    bool `json:"heater_available"`
	EquipmentIncluded  bool `json:"equipment_included"`
	AudioVideoIncluded bool `json:"audio_video_included"`
	Privatization      bool `json:"privatization"`

	// Primary is the share of the lead facilitator's board the organizer pays
	Primary BandPercents `json:"primary_facilitator_percent"`
}

// RoomRates holds the daily price of a practice room
type RoomRates struct {
	Label      string          `json:"label"`
	Standard   decimal.Decimal `json:"standard"`
	Discounted decimal.Decimal `json:"discounted"`
}

// Daily returns the discounted rate when the formula grants it
func (r RoomRates) Daily(discounted bool) decimal.Decimal {
	if discounted {
		return r.Discounted
	}
	return r.Standard
}

// OptionRates holds add-on prices
type OptionRates struct {
	HeaterPerNight     decimal.Decimal `json:"heater_per_night"`
	EquipmentPerPerson decimal.Decimal `json:"equipment_per_person"`
	AudioVideoFlat     decimal.Decimal `json:"audio_video_flat"`
}

// VenueRates describes the house itself
type VenueRates struct {
	Rooms                     int             `json:"rooms"`
	PrivatizationPerRoomNight decimal.Decimal `json:"privatization_per_room_night"`
}

// BandThresholds are the first participant counts of the medium and large bands
type BandThresholds struct {
	MediumFrom int `json:"medium_from"`
	LargeFrom  int `json:"large_from"`
}

// BandPercents is a percent-to-pay per group band
type BandPercents struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

// For returns the percent for a band
func (p BandPercents) For(band types.GroupBand) int {
	switch band {
	case types.BandMedium:
		return p.Medium
	case types.BandLarge:
		return p.Large
	default:
		return p.Small
	}
}

// Band classifies a participant count
func (t *RateTable) Band(participants int) types.GroupBand {
	switch {
	case participants >= t.Bands.LargeFrom:
		return types.BandLarge
	case participants >= t.Bands.MediumFrom:
		return types.BandMedium
	default:
		return types.BandSmall
	}
}

// Formula returns the rates for f. An unknown formula is an
// UNRECOGNIZED_KEY error; a known one missing from the table is a CONFIG_ERROR.
func (t *RateTable) Formula(f types.Formula) (FormulaRates, error) {
	if !f.IsValid() {
		return FormulaRates{}, qerrors.UnrecognizedKey("formula", string(f))
	}
	rates, ok := t.Formulas[f]
	if !ok {
		return FormulaRates{}, qerrors.Config(fmt.Sprintf("rate table %s has no formula %q", t.Version, f))
	}
	return rates, nil
}

// Room returns the rates for r
func (t *RateTable) Room(r types.Room) (RoomRates, error) {
	if !r.IsValid() {
		return RoomRates{}, qerrors.UnrecognizedKey("room", string(r))
	}
	rates, ok := t.Rooms[r]
	if !ok {
		return RoomRates{}, qerrors.Config(fmt.Sprintf("rate table %s has no room %q", t.Version, r))
	}
	return rates, nil
}

// Fingerprint is a short content hash of the table, reported with every quote
func (t *RateTable) Fingerprint() string {
	h, err := determinism.HashJSON(t)
	if err != nil {
		return ""
	}
	return h.Short()
}

// Validate checks that the table covers exactly the catalog and that every
// price and percent is in range.
func (t *RateTable) Validate() error {
	problems := map[string]string{}

	if t.Version == "" {
		problems["version"] = "required"
	}
	for _, f := range types.Formulas {
		rates, ok := t.Formulas[f]
		if !ok {
			problems["formula."+string(f)] = "missing"
			continue
		}
		key := "formula." + string(f)
		if rates.Nightly.IsNegative() {
			problems[key+".nightly"] = "must not be negative"
		}
		if rates.RoomCapacity < 1 {
			problems[key+".room_capacity"] = "must be at least 1"
		}
		checkPercents(problems, key+".primary_facilitator_percent", rates.Primary)
	}
	for f := range t.Formulas {
		if !f.IsValid() {
			problems["formula."+string(f)] = "not in catalog"
		}
	}

	for _, r := range types.Rooms {
		rates, ok := t.Rooms[r]
		if !ok {
			problems["room."+string(r)] = "missing"
			continue
		}
		if rates.Standard.IsNegative() || rates.Discounted.IsNegative() {
			problems["room."+string(r)] = "prices must not be negative"
		}
	}
	for r := range t.Rooms {
		if !r.IsValid() {
			problems["room."+string(r)] = "not in catalog"
		}
	}

	if t.Options.HeaterPerNight.IsNegative() {
		problems["options.heater_per_night"] = "must not be negative"
	}
	if t.Options.EquipmentPerPerson.IsNegative() {
		problems["options.equipment_per_person"] = "must not be negative"
	}
	if t.Options.AudioVideoFlat.IsNegative() {
		problems["options.audio_video_flat"] = "must not be negative"
	}
	if t.Venue.Rooms < 0 {
		problems["venue.rooms"] = "must not be negative"
	}
	if t.Venue.PrivatizationPerRoomNight.IsNegative() {
		problems["venue.privatization_per_room_night"] = "must not be negative"
	}
	if t.Bands.MediumFrom < 1 || t.Bands.LargeFrom <= t.Bands.MediumFrom {
		problems["bands"] = "need 0 < medium_from < large_from"
	}
	checkPercents(problems, "secondary_facilitator_percent", t.Secondary)

	if len(problems) == 0 {
		return nil
	}
	e := qerrors.New(qerrors.TypeConfig, fmt.Sprintf("rate table has %d problem(s)", len(problems)))
	for _, k := range determinism.SortedKeys(problems) {
		e.WithContext(k, problems[k])
	}
	return e
}

func checkPercents(problems map[string]string, key string, p BandPercents) {
	for band, v := range map[string]int{"small": p.Small, "medium": p.Medium, "large": p.Large} {
		if v < 0 || v > 100 {
			problems[key+"."+band] = "must be within 0..100"
		}
	}
}
