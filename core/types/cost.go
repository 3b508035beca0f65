package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FacilitatorCost is what the organizer owes for one facilitator's board
type FacilitatorCost struct {
	// Base is the full nightly rate times nights
	Base decimal.Decimal `json:"base"`

	// PercentToPay is the share of Base the organizer still pays
	PercentToPay int `json:"percent_to_pay"`

	// DiscountPercent is 100 - PercentToPay, shown to the client
	DiscountPercent int `json:"discount_percent"`

	// AmountToPay is Base * PercentToPay / 100
	AmountToPay decimal.Decimal `json:"amount_to_pay"`
}

// Breakdown is the fully itemized quote for both billing parties.
// Every money field is non-negative and every total is the sum of its items.
type Breakdown struct {
	Nights       int       `json:"nights"`
	Participants int       `json:"participants"`
	Formula      Formula   `json:"formula"`
	Room         Room      `json:"room"`
	GroupBand    GroupBand `json:"group_band"`

	// Trainee board and lodging
	BaseTrainees decimal.Decimal `json:"base_trainees"`

	// Practice room
	RoomBase  decimal.Decimal `json:"room_base"`
	Heater    decimal.Decimal `json:"heater"`
	RoomTotal decimal.Decimal `json:"room_total"`

	// Materials, routed as one bucket
	IndividualEquipment decimal.Decimal `json:"individual_equipment"`
	AudioVideo          decimal.Decimal `json:"audio_video"`
	MaterialsTotal      decimal.Decimal `json:"materials_total"`
	MaterialPaidBy      Payer           `json:"material_paid_by"`
	TraineeMaterials    decimal.Decimal `json:"trainee_materials"`
	OrganizerMaterials  decimal.Decimal `json:"organizer_materials"`

	// Facilitators
	PrimaryFacilitator   FacilitatorCost  `json:"primary_facilitator"`
	SecondaryFacilitator *FacilitatorCost `json:"secondary_facilitator,omitempty"`

	// Rooms and privatization
	TraineeRooms  int             `json:"trainee_rooms"`
	TotalRooms    int             `json:"total_rooms"`
	EmptyRooms    int             `json:"empty_rooms"`
	Privatization decimal.Decimal `json:"privatization"`

	// Totals
	TraineeTotal    decimal.Decimal `json:"trainee_total"`
	PricePerTrainee decimal.Decimal `json:"price_per_trainee"`
	OrganizerTotal  decimal.Decimal `json:"organizer_total"`
	GrandTotal      decimal.Decimal `json:"grand_total"`

	Currency         string `json:"currency"`
	RateTableVersion string `json:"rate_table_version"`
}

// FacilitatorsTotal sums what the organizer owes for all facilitators
func (b *Breakdown) FacilitatorsTotal() decimal.Decimal {
	total := b.PrimaryFacilitator.AmountToPay
	if b.SecondaryFacilitator != nil {
		total = total.Add(b.SecondaryFacilitator.AmountToPay)
	}
	return total
}

// CheckInvariants verifies that totals are sums of their items, that
// materials are routed to exactly one party and that no amount is negative.
func (b *Breakdown) CheckInvariants() error {
	money := map[string]decimal.Decimal{
		"base_trainees":        b.BaseTrainees,
		"room_base":            b.RoomBase,
		"heater":               b.Heater,
		"room_total":           b.RoomTotal,
		"individual_equipment": b.IndividualEquipment,
		"audio_video":          b.AudioVideo,
		"materials_total":      b.MaterialsTotal,
		"privatization":        b.Privatization,
		"trainee_total":        b.TraineeTotal,
		"price_per_trainee":    b.PricePerTrainee,
		"organizer_total":      b.OrganizerTotal,
		"grand_total":          b.GrandTotal,
		"primary_facilitator":  b.PrimaryFacilitator.AmountToPay,
	}
	if b.SecondaryFacilitator != nil {
		money["secondary_facilitator"] = b.SecondaryFacilitator.AmountToPay
	}
	for name, v := range money {
		if v.IsNegative() {
			return fmt.Errorf("%s is negative: %s", name, v)
		}
	}

	if !b.RoomTotal.Equal(b.RoomBase.Add(b.Heater)) {
		return fmt.Errorf("room_total %s != room_base + heater", b.RoomTotal)
	}
	if !b.MaterialsTotal.Equal(b.IndividualEquipment.Add(b.AudioVideo)) {
		return fmt.Errorf("materials_total %s != equipment + audio_video", b.MaterialsTotal)
	}

	// exactly one party carries the materials bucket
	switch b.MaterialPaidBy {
	case PayerParticipant:
		if !b.TraineeMaterials.Equal(b.MaterialsTotal) || !b.OrganizerMaterials.IsZero() {
			return fmt.Errorf("materials routed to participant but split %s/%s", b.TraineeMaterials, b.OrganizerMaterials)
		}
	case PayerOrganizer:
		if !b.OrganizerMaterials.Equal(b.MaterialsTotal) || !b.TraineeMaterials.IsZero() {
			return fmt.Errorf("materials routed to organizer but split %s/%s", b.TraineeMaterials, b.OrganizerMaterials)
		}
	default:
		return fmt.Errorf("materials routed to unknown payer %q", b.MaterialPaidBy)
	}

	if !b.TraineeTotal.Equal(b.BaseTrainees.Add(b.TraineeMaterials)) {
		return fmt.Errorf("trainee_total %s != base_trainees + trainee materials", b.TraineeTotal)
	}
	organizer := b.FacilitatorsTotal().Add(b.RoomTotal).Add(b.Privatization).Add(b.OrganizerMaterials)
	if !b.OrganizerTotal.Equal(organizer) {
		return fmt.Errorf("organizer_total %s != itemized sum %s", b.OrganizerTotal, organizer)
	}
	if !b.GrandTotal.Equal(b.TraineeTotal.Add(b.OrganizerTotal)) {
		return fmt.Errorf("grand_total %s != trainee_total + organizer_total", b.GrandTotal)
	}
	return nil
}
