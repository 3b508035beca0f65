package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"retreat-quote/core/determinism"
	"retreat-quote/core/ratetable"
	"retreat-quote/core/types"
	qerrors "retreat-quote/internal/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func stay(nights int) types.EventDates {
	start := types.NewDate(2025, 6, 12)
	return types.EventDates{Start: start, End: types.Date{Time: start.AddDate(0, 0, nights)}}
}

func mustCompute(t *testing.T, sel types.Selection, dates types.EventDates) *types.Breakdown {
	t.Helper()
	b, err := Compute(sel, dates, ratetable.Default())
	if err != nil {
		t.Fatalf("Compute(%+v): %v", sel, err)
	}
	if err := b.CheckInvariants(); err != nil {
		t.Fatalf("invariants broken for %+v: %v", sel, err)
	}
	return b
}

func expectMoney(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

// TestBasicSmallGroup prices ten trainees on the basic formula for three nights
func TestBasicSmallGroup(t *testing.T) {
	sel := types.Selection{
		Participants: 10,
		Formula:      types.FormulaBasic,
		Room:         types.RoomA,
		StaffCount:   1,
	}
	b := mustCompute(t, sel, stay(3))

	if b.Nights != 3 || b.GroupBand != types.BandSmall {
		t.Fatalf("nights=%d band=%s", b.Nights, b.GroupBand)
	}
	expectMoney(t, "BaseTrainees", b.BaseTrainees, "2940")
	expectMoney(t, "RoomTotal", b.RoomTotal, "480")
	expectMoney(t, "Primary.Base", b.PrimaryFacilitator.Base, "294")
	expectMoney(t, "Primary.AmountToPay", b.PrimaryFacilitator.AmountToPay, "220.5")
	if b.PrimaryFacilitator.PercentToPay != 75 || b.PrimaryFacilitator.DiscountPercent != 25 {
		t.Errorf("primary percents = %d/%d", b.PrimaryFacilitator.PercentToPay, b.PrimaryFacilitator.DiscountPercent)
	}
	if b.SecondaryFacilitator != nil {
		t.Error("no secondary facilitator expected with one staff member")
	}
	expectMoney(t, "OrganizerTotal", b.OrganizerTotal, "700.5")
	expectMoney(t, "TraineeTotal", b.TraineeTotal, "2940")
	expectMoney(t, "PricePerTrainee", b.PricePerTrainee, "294")
	expectMoney(t, "GrandTotal", b.GrandTotal, "3640.5")

	if b.TraineeRooms != 4 || b.TotalRooms != 5 {
		t.Errorf("rooms = %d/%d, want 4/5", b.TraineeRooms, b.TotalRooms)
	}
}

// TestPremiumMediumGroup checks the discounted room, the heater and the
// add-ons the premium formula includes.
func TestPremiumMediumGroup(t *testing.T) {
	sel := types.Selection{
		Participants:        20,
		Formula:             types.FormulaPremium,
		Room:                types.RoomBoth,
		Heater:              true,
		IndividualEquipment: true,
		AudioVideo:          true,
		MaterialPaidBy:      types.PayerParticipant,
		StaffCount:          1,
	}
	b := mustCompute(t, sel, stay(2))

	if b.GroupBand != types.BandMedium {
		t.Fatalf("band = %s", b.GroupBand)
	}
	expectMoney(t, "BaseTrainees", b.BaseTrainees, "4920")
	expectMoney(t, "RoomBase", b.RoomBase, "210")
	expectMoney(t, "Heater", b.Heater, "40")
	expectMoney(t, "RoomTotal", b.RoomTotal, "250")
	expectMoney(t, "IndividualEquipment", b.IndividualEquipment, "0")
	expectMoney(t, "AudioVideo", b.AudioVideo, "0")
	expectMoney(t, "Primary.AmountToPay", b.PrimaryFacilitator.AmountToPay, "162.36")
	expectMoney(t, "OrganizerTotal", b.OrganizerTotal, "412.36")
	expectMoney(t, "TraineeTotal", b.TraineeTotal, "4920")

	if b.TraineeRooms != 10 || b.TotalRooms != 11 {
		t.Errorf("rooms = %d/%d, want 10/11", b.TraineeRooms, b.TotalRooms)
	}
}

func TestPremiumSmallGroupPaysLess(t *testing.T) {
	sel := types.Selection{Participants: 10, Formula: types.FormulaPremium, Room: types.RoomA, StaffCount: 1}
	b := mustCompute(t, sel, stay(3))
	if b.PrimaryFacilitator.PercentToPay != 50 {
		t.Errorf("percent = %d, want 50", b.PrimaryFacilitator.PercentToPay)
	}
	expectMoney(t, "Primary.AmountToPay", b.PrimaryFacilitator.AmountToPay, "184.5")
	expectMoney(t, "RoomBase", b.RoomBase, "240")
}

func TestSecondaryFacilitator(t *testing.T) {
	tests := []struct {
		participants int
		percent      int
		amount       string
	}{
		{10, 100, "294"},
		{20, 66, "194.04"},
		{26, 0, "0"},
	}
	for _, tt := range tests {
		sel := types.Selection{Participants: tt.participants, Formula: types.FormulaBasic, Room: types.RoomA, StaffCount: 2}
		b := mustCompute(t, sel, stay(3))
		if b.SecondaryFacilitator == nil {
			t.Fatalf("%d participants: no secondary facilitator", tt.participants)
		}
		if b.SecondaryFacilitator.PercentToPay != tt.percent {
			t.Errorf("%d participants: percent = %d, want %d", tt.participants, b.SecondaryFacilitator.PercentToPay, tt.percent)
		}
		expectMoney(t, "Secondary.AmountToPay", b.SecondaryFacilitator.AmountToPay, tt.amount)
		if b.TotalRooms != b.TraineeRooms+2 {
			t.Errorf("total rooms %d should count both staff", b.TotalRooms)
		}
	}
}

func TestMaterialsRouting(t *testing.T) {
	for _, payer := range []types.Payer{types.PayerOrganizer, types.PayerParticipant, ""} {
		t.Run("payer="+string(payer), func(t *testing.T) {
			sel := types.Selection{
				Participants:        10,
				Formula:             types.FormulaBasic,
				Room:                types.RoomA,
				IndividualEquipment: true,
				AudioVideo:          true,
				MaterialPaidBy:      payer,
				StaffCount:          1,
			}
			b := mustCompute(t, sel, stay(3))

			expectMoney(t, "IndividualEquipment", b.IndividualEquipment, "100")
			expectMoney(t, "AudioVideo", b.AudioVideo, "50")
			expectMoney(t, "MaterialsTotal", b.MaterialsTotal, "150")

			if payer == types.PayerParticipant {
				expectMoney(t, "TraineeTotal", b.TraineeTotal, "3090")
				expectMoney(t, "PricePerTrainee", b.PricePerTrainee, "309")
				expectMoney(t, "OrganizerTotal", b.OrganizerTotal, "700.5")
			} else {
				if b.MaterialPaidBy != types.PayerOrganizer {
					t.Errorf("MaterialPaidBy = %q, want organizer", b.MaterialPaidBy)
				}
				expectMoney(t, "TraineeTotal", b.TraineeTotal, "2940")
				expectMoney(t, "OrganizerTotal", b.OrganizerTotal, "850.5")
			}
		})
	}
}

func TestFormulaGating(t *testing.T) {
	for _, f := range types.Formulas {
		t.Run(string(f), func(t *testing.T) {
			sel := types.Selection{
				Participants:        12,
				Formula:             f,
				Room:                types.RoomB,
				Heater:              true,
				IndividualEquipment: true,
				AudioVideo:          true,
				Privatization:       true,
				StaffCount:          1,
			}
			b := mustCompute(t, sel, stay(2))

			if f != types.FormulaPremium && !b.Heater.IsZero() {
				t.Errorf("heater charged under %s: %s", f, b.Heater)
			}
			if f != types.FormulaBasic && !b.IndividualEquipment.IsZero() {
				t.Errorf("equipment charged under %s: %s", f, b.IndividualEquipment)
			}
			if f == types.FormulaPremium && !b.AudioVideo.IsZero() {
				t.Errorf("audio/video charged under premium: %s", b.AudioVideo)
			}
			if f == types.FormulaBasic && !b.Privatization.IsZero() {
				t.Errorf("privatization charged under basic: %s", b.Privatization)
			}

			sel.Privatization = false
			off := mustCompute(t, sel, stay(2))
			if !off.Privatization.IsZero() || off.EmptyRooms != 0 {
				t.Errorf("privatization charged when not selected: %s", off.Privatization)
			}
		})
	}
}

func TestPrivatization(t *testing.T) {
	sel := types.Selection{
		Participants:  8,
		Formula:       types.FormulaAllInclusive,
		Room:          types.RoomA,
		Privatization: true,
		StaffCount:    1,
	}
	b := mustCompute(t, sel, stay(2))
	if b.TraineeRooms != 3 || b.TotalRooms != 4 || b.EmptyRooms != 6 {
		t.Errorf("rooms = %d/%d/%d, want 3/4/6", b.TraineeRooms, b.TotalRooms, b.EmptyRooms)
	}
	expectMoney(t, "Privatization", b.Privatization, "1200")

	// a full house leaves nothing to privatize, and never credits the organizer
	sel.Formula = types.FormulaPremium
	sel.Participants = 29
	sel.StaffCount = 2
	full := mustCompute(t, sel, stay(2))
	if full.TotalRooms != 17 || full.EmptyRooms != 0 {
		t.Errorf("rooms = %d/%d, want 17/0", full.TotalRooms, full.EmptyRooms)
	}
	expectMoney(t, "Privatization", full.Privatization, "0")
}

func TestDegenerateInput(t *testing.T) {
	t.Run("default selection without dates", func(t *testing.T) {
		b := mustCompute(t, types.DefaultSelection(), types.EventDates{})
		if b.Nights != 0 {
			t.Errorf("nights = %d", b.Nights)
		}
		expectMoney(t, "GrandTotal", b.GrandTotal, "0")
	})

	t.Run("reversed dates", func(t *testing.T) {
		dates := types.EventDates{Start: types.NewDate(2025, 6, 15), End: types.NewDate(2025, 6, 12)}
		b := mustCompute(t, types.DefaultSelection(), dates)
		if b.Nights != 0 {
			t.Errorf("nights = %d", b.Nights)
		}
		expectMoney(t, "GrandTotal", b.GrandTotal, "0")
	})

	t.Run("zero participants", func(t *testing.T) {
		sel := types.DefaultSelection()
		sel.Participants = 0
		b := mustCompute(t, sel, stay(3))
		expectMoney(t, "TraineeTotal", b.TraineeTotal, "0")
		expectMoney(t, "PricePerTrainee", b.PricePerTrainee, "0")
		if b.TraineeRooms != 0 {
			t.Errorf("trainee rooms = %d", b.TraineeRooms)
		}
	})

	t.Run("negative participants", func(t *testing.T) {
		sel := types.DefaultSelection()
		sel.Participants = -4
		b := mustCompute(t, sel, stay(3))
		if b.Participants != 0 {
			t.Errorf("participants = %d, want clamped to 0", b.Participants)
		}
		expectMoney(t, "BaseTrainees", b.BaseTrainees, "0")
	})
}

func TestUnrecognizedKeys(t *testing.T) {
	base := types.DefaultSelection()
	tests := []struct {
		name   string
		modify func(*types.Selection)
	}{
		{"empty formula", func(s *types.Selection) { s.Formula = "" }},
		{"unknown formula", func(s *types.Selection) { s.Formula = "deluxe" }},
		{"unknown room", func(s *types.Selection) { s.Room = "attic" }},
		{"unknown payer", func(s *types.Selection) { s.MaterialPaidBy = "sponsor" }},
		{"no staff", func(s *types.Selection) { s.StaffCount = 0 }},
		{"three staff", func(s *types.Selection) { s.StaffCount = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := base
			tt.modify(&sel)
			_, err := Compute(sel, stay(2), ratetable.Default())
			if !qerrors.IsType(err, qerrors.TypeUnrecognizedKey) {
				t.Errorf("err = %v, want UNRECOGNIZED_KEY", err)
			}
		})
	}
}

func TestIncompleteRateTable(t *testing.T) {
	rates := ratetable.Default()
	delete(rates.Rooms, types.RoomA)
	_, err := Compute(types.DefaultSelection(), stay(2), rates)
	if !qerrors.IsType(err, qerrors.TypeConfig) {
		t.Errorf("err = %v, want CONFIG_ERROR", err)
	}

	_, err = Compute(types.DefaultSelection(), stay(2), nil)
	if !qerrors.IsType(err, qerrors.TypeConfig) {
		t.Errorf("nil table: err = %v, want CONFIG_ERROR", err)
	}
}

func TestComputeDoesNotMutateRates(t *testing.T) {
	rates := ratetable.Default()
	before := rates.Fingerprint()
	sel := types.Selection{
		Participants:        15,
		Formula:             types.FormulaAllInclusive,
		Room:                types.RoomBoth,
		Heater:              true,
		IndividualEquipment: true,
		AudioVideo:          true,
		Privatization:       true,
		StaffCount:          2,
	}
	first, err := Compute(sel, stay(4), rates)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Compute(sel, stay(4), rates)
	if err != nil {
		t.Fatal(err)
	}
	if rates.Fingerprint() != before {
		t.Error("Compute modified the rate table")
	}
	h1, err := determinism.HashJSON(first)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := determinism.HashJSON(second)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("same input gave different breakdowns:\n%+v\n%+v", first, second)
	}
}

func TestFacilitatorPercentsByBand(t *testing.T) {
	rates := ratetable.Default()
	for _, f := range types.Formulas {
		p := rates.Formulas[f].Primary
		if p.Medium < p.Large {
			t.Errorf("%s: medium %d < large %d", f, p.Medium, p.Large)
		}
		if f == types.FormulaPremium {
			// the one tier where small groups pay a lower share
			if p.Small >= p.Medium {
				t.Errorf("premium: small %d should be below medium %d", p.Small, p.Medium)
			}
			continue
		}
		if p.Small < p.Medium {
			t.Errorf("%s: small %d < medium %d", f, p.Small, p.Medium)
		}
	}
	s := rates.Secondary
	if s.Small < s.Medium || s.Medium < s.Large {
		t.Errorf("secondary percents not monotonic: %+v", s)
	}
}

// TestInvariantsHoldEverywhere sweeps the selection space and checks the
// breakdown sums, routing and per-trainee price on every point.
func TestInvariantsHoldEverywhere(t *testing.T) {
	rates := ratetable.Default()
	tolerance := dec("0.01")
	bools := []bool{false, true}

	for _, f := range types.Formulas {
		for _, r := range types.Rooms {
			for _, participants := range []int{-1, 0, 1, 8, 12, 13, 24, 25, 29, 40} {
				for nights := 0; nights <= 4; nights++ {
					for _, payer := range []types.Payer{types.PayerOrganizer, types.PayerParticipant} {
						for staff := 1; staff <= 2; staff++ {
							for _, heater := range bools {
								for _, extras := range bools {
									sel := types.Selection{
										Participants:        participants,
										Formula:             f,
										Room:                r,
										Heater:              heater,
										IndividualEquipment: extras,
										AudioVideo:          extras,
										MaterialPaidBy:      payer,
										Privatization:       heater,
										StaffCount:          staff,
									}
									b, err := Compute(sel, stay(nights), rates)
									if err != nil {
										t.Fatalf("%+v: %v", sel, err)
									}
									if err := b.CheckInvariants(); err != nil {
										t.Fatalf("%+v over %d nights: %v", sel, nights, err)
									}
									if b.Participants > 0 {
										back := b.PricePerTrainee.Mul(decimal.NewFromInt(int64(b.Participants)))
										if back.Sub(b.TraineeTotal).Abs().GreaterThan(tolerance) {
											t.Fatalf("%+v: %s * %d != %s", sel, b.PricePerTrainee, b.Participants, b.TraineeTotal)
										}
									}
								}
							}
						}
					}
				}
			}
		}
	}
}
