package ratetable

import (
	"github.com/shopspring/decimal"

	"retreat-quote/core/types"
)

// DefaultVersion identifies the built-in table
const DefaultVersion = "2025.1"

// Default returns the venue's published rates. Each call returns a fresh table.
func Default() *RateTable {
	d := decimal.NewFromInt
	return &RateTable{
		Version:  DefaultVersion,
		Currency: "EUR",
		Formulas: map[types.Formula]FormulaRates{
			types.FormulaBasic: {
				Label:        "Essentiel",
				Nightly:      d(98),
				RoomCapacity: 3,
				Primary:      BandPercents{Small: 75, Medium: 66, Large: 0},
			},
			types.FormulaAllInclusive: {
				Label:             "Venez Léger",
				Nightly:           d(110),
				RoomCapacity:      3,
				EquipmentIncluded: true,
				Privatization:     true,
				Primary:           BandPercents{Small: 75, Medium: 66, Large: 0},
			},
			types.FormulaPremium: {
				Label:              "Cocooning",
				Nightly:            d(123),
				RoomCapacity:       2,
				DiscountedRoom:     true,
				HeaterAvailable:    true,
				EquipmentIncluded:  true,
				AudioVideoIncluded: true,
				Privatization:      true,
				// small groups pay less than medium ones on this formula
				Primary: BandPercents{Small: 50, Medium: 66, Large: 0},
			},
		},
		Rooms: map[types.Room]RoomRates{
			types.RoomA:    {Label: "Pina", Standard: d(160), Discounted: d(80)},
			types.RoomB:    {Label: "Patio", Standard: d(100), Discounted: d(50)},
			types.RoomBoth: {Label: "Pina + Patio", Standard: d(210), Discounted: d(105)},
		},
		Options: OptionRates{
			HeaterPerNight:     d(20),
			EquipmentPerPerson: d(10),
			AudioVideoFlat:     d(50),
		},
		Venue: VenueRates{
			Rooms:                     10,
			PrivatizationPerRoomNight: d(100),
		},
		Bands:     BandThresholds{MediumFrom: 13, LargeFrom: 25},
		Secondary: BandPercents{Small: 100, Medium: 66, Large: 0},
	}
}
