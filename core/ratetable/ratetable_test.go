package ratetable

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"retreat-quote/core/types"
	qerrors "retreat-quote/internal/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
}

func TestBand(t *testing.T) {
	table := Default()
	tests := []struct {
		participants int
		want         types.GroupBand
	}{
		{0, types.BandSmall},
		{8, types.BandSmall},
		{12, types.BandSmall},
		{13, types.BandMedium},
		{24, types.BandMedium},
		{25, types.BandLarge},
		{29, types.BandLarge},
	}
	for _, tt := range tests {
		if got := table.Band(tt.participants); got != tt.want {
			t.Errorf("Band(%d) = %s, want %s", tt.participants, got, tt.want)
		}
	}
}

func TestLookupErrors(t *testing.T) {
	table := Default()

	if _, err := table.Formula("deluxe"); !qerrors.IsType(err, qerrors.TypeUnrecognizedKey) {
		t.Errorf("unknown formula: got %v", err)
	}
	if _, err := table.Room("attic"); !qerrors.IsType(err, qerrors.TypeUnrecognizedKey) {
		t.Errorf("unknown room: got %v", err)
	}

	delete(table.Formulas, types.FormulaPremium)
	if _, err := table.Formula(types.FormulaPremium); !qerrors.IsType(err, qerrors.TypeConfig) {
		t.Errorf("missing formula: got %v", err)
	}
	delete(table.Rooms, types.RoomB)
	if _, err := table.Room(types.RoomB); !qerrors.IsType(err, qerrors.TypeConfig) {
		t.Errorf("missing room: got %v", err)
	}
}

func TestValidateReportsProblems(t *testing.T) {
	table := Default()
	delete(table.Rooms, types.RoomBoth)
	premium := table.Formulas[types.FormulaPremium]
	premium.Primary.Small = 120
	table.Formulas[types.FormulaPremium] = premium
	table.Options.HeaterPerNight = decimal.NewFromInt(-1)

	err := table.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	var qe *qerrors.Error
	if !errors.As(err, &qe) || qe.Type != qerrors.TypeConfig {
		t.Fatalf("error = %v, want CONFIG_ERROR", err)
	}
	for _, key := range []string{
		"room.room_a_room_b",
		"formula.premium.primary_facilitator_percent.small",
		"options.heater_per_night",
	} {
		if _, ok := qe.Context[key]; !ok {
			t.Errorf("missing problem %q in %v", key, qe.Context)
		}
	}
}

func TestLoadHCL(t *testing.T) {
	table, err := Load("testdata/rates.hcl")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Version != "2026.spring" {
		t.Errorf("Version = %q", table.Version)
	}

	// legacy keys resolve to catalog keys
	basic, err := table.Formula(types.FormulaBasic)
	if err != nil {
		t.Fatal(err)
	}
	if !basic.Nightly.Equal(decimal.NewFromInt(90)) {
		t.Errorf("basic nightly = %s", basic.Nightly)
	}
	patio, err := table.Room(types.RoomB)
	if err != nil {
		t.Fatal(err)
	}
	if !patio.Standard.Equal(decimal.NewFromInt(100)) {
		t.Errorf("room_b standard = %s", patio.Standard)
	}

	allIn := table.Formulas[types.FormulaAllInclusive]
	if !allIn.Nightly.Equal(decimal.RequireFromString("105.5")) {
		t.Errorf("all_inclusive nightly = %s", allIn.Nightly)
	}
	if table.Venue.Rooms != 12 {
		t.Errorf("venue rooms = %d", table.Venue.Rooms)
	}
}

func TestLoadJSON(t *testing.T) {
	table, err := Load("testdata/rates.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Version != "2026.json" || table.Currency != "EUR" {
		t.Errorf("header = %q %q", table.Version, table.Currency)
	}
	if !table.Formulas[types.FormulaPremium].AudioVideoIncluded {
		t.Error("premium should include audio/video")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want qerrors.Type
	}{
		{"syntax", `version = `, qerrors.TypeParsing},
		{"missing blocks", `version = "x"`, qerrors.TypeParsing},
		{"unknown attribute", strings.Replace(string(Export(Default())), `currency = "EUR"`, `currency = "EUR"
colour = "blue"`, 1), qerrors.TypeParsing},
		{"unknown formula", strings.Replace(string(Export(Default())), `formula "basic"`, `formula "deluxe"`, 1), qerrors.TypeConfig},
		{"duplicate room", strings.Replace(string(Export(Default())), `room "room_b"`, `room "room_a"`, 1), qerrors.TypeConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "rates.hcl")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := qerrors.TypeOf(err); got != tt.want {
				t.Errorf("error type = %s, want %s (%v)", got, tt.want, err)
			}
		})
	}
}

func TestExportRoundTrip(t *testing.T) {
	want := Default()
	out := Export(want)

	got, err := Parse(out, "exported.hcl")
	if err != nil {
		t.Fatalf("Parse(Export(Default())): %v\n%s", err, out)
	}
	if got.Fingerprint() != want.Fingerprint() {
		t.Errorf("fingerprint changed: %s -> %s\n%s", want.Fingerprint(), got.Fingerprint(), out)
	}
}

func TestFingerprintTracksChanges(t *testing.T) {
	a := Default()
	b := Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("identical tables have different fingerprints")
	}
	b.Options.AudioVideoFlat = decimal.NewFromInt(55)
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("fingerprint ignored a price change")
	}
}

func TestShippedRatesMatchDefaults(t *testing.T) {
	shipped, err := Load("../../configs/rates.hcl")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if shipped.Fingerprint() != Default().Fingerprint() {
		t.Error("configs/rates.hcl drifted from the built-in rate table")
	}
}
