// Package pricing - Quote pricing engine.
// Compute is a pure function of its arguments: it reads no globals, performs
// no I/O and never modifies the selection or the rate table.
package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"

	"retreat-quote/core/ratetable"
	"retreat-quote/core/types"
	qerrors "retreat-quote/internal/errors"
)

// EngineVersion is reported with every priced quote
const EngineVersion = "1.0.0"

var hundred = decimal.NewFromInt(100)

// Compute prices a selection over a date range against a rate table.
//
// Degenerate input is not an error: zero nights or zero participants give
// zero amounts and negative participant counts are treated as zero. Only a
// value outside the catalog (UNRECOGNIZED_KEY) or a table that does not cover
// the catalog (CONFIG_ERROR) fails.
func Compute(sel types.Selection, dates types.EventDates, rates *ratetable.RateTable) (*types.Breakdown, error) {
	if rates == nil {
		return nil, qerrors.Config("no rate table")
	}

	formula, err := rates.Formula(sel.Formula)
	if err != nil {
		return nil, err
	}
	room, err := rates.Room(sel.Room)
	if err != nil {
		return nil, err
	}
	payer := sel.MaterialPaidBy.OrDefault()
	if !payer.IsValid() {
		return nil, qerrors.UnrecognizedKey("payer", string(sel.MaterialPaidBy))
	}
	if sel.StaffCount != 1 && sel.StaffCount != 2 {
		return nil, qerrors.UnrecognizedKey("staff_count", strconv.Itoa(sel.StaffCount))
	}

	participants := sel.Participants
	if participants < 0 {
		participants = 0
	}
	nights := dates.Nights()
	n := decimal.NewFromInt(int64(nights))
	p := decimal.NewFromInt(int64(participants))
	band := rates.Band(participants)

	b := &types.Breakdown{
		Nights:           nights,
		Participants:     participants,
		Formula:          sel.Formula,
		Room:             sel.Room,
		GroupBand:        band,
		MaterialPaidBy:   payer,
		Currency:         rates.Currency,
		RateTableVersion: rates.Version,
	}

	// trainees
	b.BaseTrainees = p.Mul(formula.Nightly).Mul(n)

	// practice room
	b.RoomBase = room.Daily(formula.DiscountedRoom).Mul(n)
	b.Heater = decimal.Zero
	if sel.Heater && formula.HeaterAvailable {
		b.Heater = rates.Options.HeaterPerNight.Mul(n)
	}
	b.RoomTotal = b.RoomBase.Add(b.Heater)

	// materials
	b.IndividualEquipment = decimal.Zero
	if sel.IndividualEquipment && !formula.EquipmentIncluded {
		b.IndividualEquipment = p.Mul(rates.Options.EquipmentPerPerson)
	}
	b.AudioVideo = decimal.Zero
	if sel.AudioVideo && !formula.AudioVideoIncluded {
		b.AudioVideo = rates.Options.AudioVideoFlat
	}
	b.MaterialsTotal = b.IndividualEquipment.Add(b.AudioVideo)
	b.TraineeMaterials, b.OrganizerMaterials = decimal.Zero, decimal.Zero
	if payer == types.PayerParticipant {
		b.TraineeMaterials = b.MaterialsTotal
	} else {
		b.OrganizerMaterials = b.MaterialsTotal
	}

	// facilitators
	facilitatorBase := formula.Nightly.Mul(n)
	b.PrimaryFacilitator = facilitatorCost(facilitatorBase, formula.Primary.For(band))
	if sel.StaffCount == 2 {
		secondary := facilitatorCost(facilitatorBase, rates.Secondary.For(band))
		b.SecondaryFacilitator = &secondary
	}

	// bedrooms and privatization
	b.TraineeRooms = ceilDiv(participants, formula.RoomCapacity)
	b.TotalRooms = b.TraineeRooms + sel.StaffCount
	b.Privatization = decimal.Zero
	if sel.Privatization && formula.Privatization {
		b.EmptyRooms = rates.Venue.Rooms - b.TotalRooms
		if b.EmptyRooms < 0 {
			b.EmptyRooms = 0
		}
		b.Privatization = decimal.NewFromInt(int64(b.EmptyRooms)).
			Mul(rates.Venue.PrivatizationPerRoomNight).
			Mul(n)
	}

	// totals
	b.TraineeTotal = b.BaseTrainees.Add(b.TraineeMaterials)
	b.PricePerTrainee = decimal.Zero
	if participants > 0 {
		b.PricePerTrainee = b.TraineeTotal.Div(p)
	}
	b.OrganizerTotal = b.FacilitatorsTotal().
		Add(b.RoomTotal).
		Add(b.Privatization).
		Add(b.OrganizerMaterials)
	b.GrandTotal = b.TraineeTotal.Add(b.OrganizerTotal)

	return b, nil
}

func facilitatorCost(base decimal.Decimal, percent int) types.FacilitatorCost {
	return types.FacilitatorCost{
		Base:            base,
		PercentToPay:    percent,
		DiscountPercent: 100 - percent,
		AmountToPay:     base.Mul(decimal.NewFromInt(int64(percent))).Div(hundred),
	}
}

func ceilDiv(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
