package ratetable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	"retreat-quote/core/types"
	qerrors "retreat-quote/internal/errors"
)

// fileSchema mirrors the rate table file layout:
//
//	version  = "2025.1"
//	currency = "EUR"
//
//	formula "basic" {
//	  label         = "Essentiel"
//	  nightly       = 98
//	  room_capacity = 3
//	  facilitator_percent {
//	    small  = 75
//	    medium = 66
//	    large  = 0
//	  }
//	}
//
//	room "room_a" {
//	  standard   = 160
//	  discounted = 80
//	}
type fileSchema struct {
	Version   string         `hcl:"version"`
	Currency  string         `hcl:"currency,optional"`
	Formulas  []formulaBlock `hcl:"formula,block"`
	Rooms     []roomBlock    `hcl:"room,block"`
	Options   optionsBlock   `hcl:"options,block"`
	Venue     venueBlock     `hcl:"venue,block"`
	Bands     bandsBlock     `hcl:"bands,block"`
	Secondary percentsBlock  `hcl:"secondary_facilitator_percent,block"`
}

type formulaBlock struct {
	Key                string        `hcl:"key,label"`
	Label              string        `hcl:"label,optional"`
	Nightly            float64       `hcl:"nightly"`
	RoomCapacity       int           `hcl:"room_capacity"`
	DiscountedRoom     bool          `hcl:"discounted_room,optional"`
	HeaterAvailable    bool          `hcl:"heater_available,optional"`
	EquipmentIncluded  bool          `hcl:"equipment_included,optional"`
	AudioVideoIncluded bool          `hcl:"audio_video_included,optional"`
	Privatization      bool          `hcl:"privatization,optional"`
	Primary            percentsBlock `hcl:"facilitator_percent,block"`
}

type roomBlock struct {
	Key        string  `hcl:"key,label"`
	Label      string  `hcl:"label,optional"`
	Standard   float64 `hcl:"standard"`
	Discounted float64 `hcl:"discounted"`
}

type optionsBlock struct {
	HeaterPerNight     float64 `hcl:"heater_per_night"`
	EquipmentPerPerson float64 `hcl:"equipment_per_person"`
	AudioVideoFlat     float64 `hcl:"audio_video_flat"`
}

type venueBlock struct {
	Rooms                     int     `hcl:"rooms"`
	PrivatizationPerRoomNight float64 `hcl:"privatization_per_room_night"`
}

type bandsBlock struct {
	MediumFrom int `hcl:"medium_from"`
	LargeFrom  int `hcl:"large_from"`
}

type percentsBlock struct {
	Small  int `hcl:"small"`
	Medium int `hcl:"medium"`
	Large  int `hcl:"large"`
}

func (p percentsBlock) toPercents() BandPercents {
	return BandPercents{Small: p.Small, Medium: p.Medium, Large: p.Large}
}

// Load reads a rate table from an HCL file, or an HCL-JSON file when the
// name ends in .json, and validates it.
func Load(path string) (*RateTable, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, qerrors.Wrap(qerrors.TypeConfig, "failed to read rate table", err).
			WithContext("path", path)
	}
	return Parse(src, path)
}

// Parse decodes rate table source. filename picks the syntax and is used in
// diagnostics.
func Parse(src []byte, filename string) (*RateTable, error) {
	parser := hclparse.NewParser()

	var file *hcl.File
	var diags hcl.Diagnostics
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		file, diags = parser.ParseJSON(src, filename)
	} else {
		file, diags = parser.ParseHCL(src, filename)
	}
	if diags.HasErrors() {
		return nil, qerrors.Parsing(filename, firstError(diags))
	}

	var raw fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, qerrors.Parsing(filename, firstError(diags))
	}

	table, err := raw.toTable()
	if err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func (raw *fileSchema) toTable() (*RateTable, error) {
	currency := raw.Currency
	if currency == "" {
		currency = "EUR"
	}
	t := &RateTable{
		Version:  raw.Version,
		Currency: currency,
		Formulas: make(map[types.Formula]FormulaRates, len(raw.Formulas)),
		Rooms:    make(map[types.Room]RoomRates, len(raw.Rooms)),
		Options: OptionRates{
			HeaterPerNight:     decimal.NewFromFloat(raw.Options.HeaterPerNight),
			EquipmentPerPerson: decimal.NewFromFloat(raw.Options.EquipmentPerPerson),
			AudioVideoFlat:     decimal.NewFromFloat(raw.Options.AudioVideoFlat),
		},
		Venue: VenueRates{
			Rooms:                     raw.Venue.Rooms,
			PrivatizationPerRoomNight: decimal.NewFromFloat(raw.Venue.PrivatizationPerRoomNight),
		},
		Bands:     BandThresholds{MediumFrom: raw.Bands.MediumFrom, LargeFrom: raw.Bands.LargeFrom},
		Secondary: raw.Secondary.toPercents(),
	}

	for _, fb := range raw.Formulas {
		f, err := types.ParseFormula(fb.Key)
		if err != nil {
			return nil, qerrors.Wrap(qerrors.TypeConfig, "rate table formula", err)
		}
		if _, dup := t.Formulas[f]; dup {
			return nil, qerrors.Config(fmt.Sprintf("formula %q defined twice", f))
		}
		t.Formulas[f] = FormulaRates{
			Label:              fb.Label,
			Nightly:            decimal.NewFromFloat(fb.Nightly),
			RoomCapacity:       fb.RoomCapacity,
			DiscountedRoom:     fb.DiscountedRoom,
			HeaterAvailable:    fb.HeaterAvailable,
			EquipmentIncluded:  fb.EquipmentIncluded,
			AudioVideoIncluded: fb.AudioVideoIncluded,
			Privatization:      fb.Privatization,
			Primary:            fb.Primary.toPercents(),
		}
	}

	for _, rb := range raw.Rooms {
		r, err := types.ParseRoom(rb.Key)
		if err != nil {
			return nil, qerrors.Wrap(qerrors.TypeConfig, "rate table room", err)
		}
		if _, dup := t.Rooms[r]; dup {
			return nil, qerrors.Config(fmt.Sprintf("room %q defined twice", r))
		}
		t.Rooms[r] = RoomRates{
			Label:      rb.Label,
			Standard:   decimal.NewFromFloat(rb.Standard),
			Discounted: decimal.NewFromFloat(rb.Discounted),
		}
	}
	return t, nil
}

func firstError(diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity == hcl.DiagError {
			return diag
		}
	}
	return diags
}

// Export writes the table in the HCL layout Load reads
func Export(t *RateTable) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("version", cty.StringVal(t.Version))
	body.SetAttributeValue("currency", cty.StringVal(t.Currency))

	for _, key := range types.Formulas {
		rates, ok := t.Formulas[key]
		if !ok {
			continue
		}
		body.AppendNewline()
		fb := body.AppendNewBlock("formula", []string{string(key)}).Body()
		fb.SetAttributeValue("label", cty.StringVal(rates.Label))
		fb.SetAttributeValue("nightly", money(rates.Nightly))
		fb.SetAttributeValue("room_capacity", cty.NumberIntVal(int64(rates.RoomCapacity)))
		fb.SetAttributeValue("discounted_room", cty.BoolVal(rates.DiscountedRoom))
		fb.SetAttributeValue("heater_available", cty.BoolVal(rates.HeaterAvailable))
		fb.SetAttributeValue("equipment_included", cty.BoolVal(rates.EquipmentIncluded))
		fb.SetAttributeValue("audio_video_included", cty.BoolVal(rates.AudioVideoIncluded))
		fb.SetAttributeValue("privatization", cty.BoolVal(rates.Privatization))
		writePercents(fb.AppendNewBlock("facilitator_percent", nil).Body(), rates.Primary)
	}

	for _, key := range types.Rooms {
		rates, ok := t.Rooms[key]
		if !ok {
			continue
		}
		body.AppendNewline()
		rb := body.AppendNewBlock("room", []string{string(key)}).Body()
		rb.SetAttributeValue("label", cty.StringVal(rates.Label))
		rb.SetAttributeValue("standard", money(rates.Standard))
		rb.SetAttributeValue("discounted", money(rates.Discounted))
	}

	body.AppendNewline()
	ob := body.AppendNewBlock("options", nil).Body()
	ob.SetAttributeValue("heater_per_night", money(t.Options.HeaterPerNight))
	ob.SetAttributeValue("equipment_per_person", money(t.Options.EquipmentPerPerson))
	ob.SetAttributeValue("audio_video_flat", money(t.Options.AudioVideoFlat))

	body.AppendNewline()
	vb := body.AppendNewBlock("venue", nil).Body()
	vb.SetAttributeValue("rooms", cty.NumberIntVal(int64(t.Venue.Rooms)))
	vb.SetAttributeValue("privatization_per_room_night", money(t.Venue.PrivatizationPerRoomNight))

	body.AppendNewline()
	bb := body.AppendNewBlock("bands", nil).Body()
	bb.SetAttributeValue("medium_from", cty.NumberIntVal(int64(t.Bands.MediumFrom)))
	bb.SetAttributeValue("large_from", cty.NumberIntVal(int64(t.Bands.LargeFrom)))

	body.AppendNewline()
	writePercents(body.AppendNewBlock("secondary_facilitator_percent", nil).Body(), t.Secondary)

	return hclwrite.Format(f.Bytes())
}

func writePercents(body *hclwrite.Body, p BandPercents) {
	body.SetAttributeValue("small", cty.NumberIntVal(int64(p.Small)))
	body.SetAttributeValue("medium", cty.NumberIntVal(int64(p.Medium)))
	body.SetAttributeValue("large", cty.NumberIntVal(int64(p.Large)))
}

func money(d decimal.Decimal) cty.Value {
	if d.IsInteger() {
		return cty.NumberIntVal(d.IntPart())
	}
	return cty.NumberFloatVal(d.InexactFloat64())
}
