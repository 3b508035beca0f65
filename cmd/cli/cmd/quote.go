// Package cmd - quote and compare commands
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"retreat-quote/adapters/document"
	"retreat-quote/core/determinism"
	"retreat-quote/core/output"
	"retreat-quote/core/pricing"
	"retreat-quote/core/quote"
	"retreat-quote/core/ratetable"
	"retreat-quote/core/types"
	"retreat-quote/internal/config"
	"retreat-quote/internal/logging"
)

// selectionFlags are shared by quote and compare
type selectionFlags struct {
	input string

	formula      string
	room         string
	participants int
	start        string
	end          string
	nights       int

	heater        bool
	equipment     bool
	audioVideo    bool
	paidBy        string
	privatization bool
	staff         int

	format  string
	details bool
	pdf     string
}

func (f *selectionFlags) register(c *cobra.Command) {
	def := types.DefaultSelection()
	fl := c.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "quote JSON file; other flags override its values")
	fl.StringVar(&f.formula, "formula", string(def.Formula), "formula (basic, all_inclusive, premium)")
	fl.StringVar(&f.room, "room", string(def.Room), "practice room (room_a, room_b, room_a_room_b)")
	fl.IntVarP(&f.participants, "participants", "p", def.Participants, "number of trainees")
	fl.StringVar(&f.start, "start", "", "arrival date (YYYY-MM-DD)")
	fl.StringVar(&f.end, "end", "", "departure date (YYYY-MM-DD)")
	fl.IntVarP(&f.nights, "nights", "n", 0, "number of nights, from --start or today")
	fl.BoolVar(&f.heater, "heater", false, "room heater (premium only)")
	fl.BoolVar(&f.equipment, "equipment", false, "individual equipment (basic only)")
	fl.BoolVar(&f.audioVideo, "audio-video", false, "audio/video equipment")
	fl.StringVar(&f.paidBy, "paid-by", string(def.MaterialPaidBy), "who pays the materials (organizer, participant)")
	fl.BoolVar(&f.privatization, "privatization", false, "privatize the whole venue")
	fl.IntVar(&f.staff, "staff", def.StaffCount, "facilitators (1 or 2)")
	fl.StringVarP(&f.format, "format", "f", "", "output format (cli, json, markdown, html)")
	fl.BoolVarP(&f.details, "details", "d", true, "show itemized lines")
	fl.StringVar(&f.pdf, "pdf", "", "also print the quote document to this PDF file")
}

// quote builds the quote from --input and the flags the user set
func (f *selectionFlags) quote(c *cobra.Command) (*quote.Quote, error) {
	q := &quote.Quote{Selection: types.DefaultSelection()}
	if f.input != "" {
		data, err := os.ReadFile(f.input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		if err := json.Unmarshal(data, q); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.input, err)
		}
	}

	fl := c.Flags()
	sel := &q.Selection
	if fl.Changed("formula") || f.input == "" {
		v, err := types.ParseFormula(f.formula)
		if err != nil {
			return nil, err
		}
		sel.Formula = v
	}
	if fl.Changed("room") || f.input == "" {
		v, err := types.ParseRoom(f.room)
		if err != nil {
			return nil, err
		}
		sel.Room = v
	}
	if fl.Changed("paid-by") || f.input == "" {
		v, err := types.ParsePayer(f.paidBy)
		if err != nil {
			return nil, err
		}
		sel.MaterialPaidBy = v
	}
	if fl.Changed("participants") || f.input == "" {
		sel.Participants = f.participants
	}
	if fl.Changed("staff") || f.input == "" {
		sel.StaffCount = f.staff
	}
	if fl.Changed("heater") {
		sel.Heater = f.heater
	}
	if fl.Changed("equipment") {
		sel.IndividualEquipment = f.equipment
	}
	if fl.Changed("audio-video") {
		sel.AudioVideo = f.audioVideo
	}
	if fl.Changed("privatization") {
		sel.Privatization = f.privatization
	}

	if err := f.applyDates(&q.Event.EventDates); err != nil {
		return nil, err
	}
	return q, nil
}

func (f *selectionFlags) applyDates(dates *types.EventDates) error {
	if f.start != "" {
		d, err := types.ParseDate(f.start)
		if err != nil {
			return err
		}
		dates.Start = d
	}
	if f.end != "" {
		d, err := types.ParseDate(f.end)
		if err != nil {
			return err
		}
		dates.End = d
	}
	if f.nights > 0 {
		if dates.Start.IsZero() {
			now := time.Now()
			dates.Start = types.NewDate(now.Year(), now.Month(), now.Day())
		}
		dates.End = types.Date{Time: dates.Start.AddDate(0, 0, f.nights)}
	}
	return nil
}

var quoteFlags selectionFlags

// quoteCmd prices one selection
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a retreat",
	Long: `Price a retreat from flags or a quote JSON file.

Examples:
  retreat-quote quote --participants 10 --start 2025-06-12 --end 2025-06-15
  retreat-quote quote --formula all_inclusive --privatization --participants 14 --nights 3
  retreat-quote quote --input quote.json --format html > devis.html
  retreat-quote quote --input quote.json --pdf devis.pdf`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		return runQuote(c, &quoteFlags, false)
	},
}

var compareFlags selectionFlags

// compareCmd prices a selection and the next formula up
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Price a retreat next to the next formula up",
	Long: `Price a retreat and the same selection on the next formula up
(basic -> all_inclusive -> premium), with the per-party differences.`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		return runQuote(c, &compareFlags, true)
	},
}

func init() {
	quoteFlags.register(quoteCmd)
	compareFlags.register(compareCmd)
}

func runQuote(c *cobra.Command, f *selectionFlags, compare bool) error {
	start := time.Now()

	rates, err := loadRates()
	if err != nil {
		return err
	}
	q, err := f.quote(c)
	if err != nil {
		return err
	}

	inputHash, err := determinism.HashJSON(q)
	if err != nil {
		return err
	}
	if q.ID == "" {
		q.ID = string(determinism.NewIDGenerator("cli-quote").Generate(inputHash.Hex()))
	}

	result, err := price(q, rates, compare)
	if err != nil {
		return err
	}
	result.Metadata = output.Metadata{
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Duration:         time.Since(start).String(),
		InputHash:        inputHash.Hex(),
		EngineVersion:    pricing.EngineVersion,
		RateTableVersion: rates.Version,
		RateFingerprint:  rates.Fingerprint(),
	}

	logging.ForQuote(q.ID).Debug("quote priced",
		zap.Int("nights", result.Breakdown.Nights),
		logging.Money("grand_total", result.Breakdown.GrandTotal))

	if err := render(c.OutOrStdout(), f, result); err != nil {
		return err
	}
	if f.pdf != "" {
		return writePDF(c.Context(), f.pdf, result)
	}
	return nil
}

func price(q *quote.Quote, rates *ratetable.RateTable, compare bool) (*output.Result, error) {
	if !compare {
		b, err := q.Price(rates)
		if err != nil {
			return nil, err
		}
		return &output.Result{Quote: q, Breakdown: b}, nil
	}
	cmp, err := pricing.CompareUpgrade(q.Selection, q.Event.EventDates, rates)
	if err != nil {
		return nil, err
	}
	return &output.Result{Quote: q, Breakdown: cmp.Current, Comparison: cmp}, nil
}

func render(w io.Writer, f *selectionFlags, result *output.Result) error {
	cfg := config.Get()
	format := f.format
	if format == "" {
		format = cfg.Output.DefaultFormat
	}

	registry := output.NewRegistry(
		&output.CLIFormatter{ShowDetails: f.details},
		&output.JSONFormatter{Indent: true},
		&output.MarkdownFormatter{},
	)
	if output.Format(format) == output.FormatHTML {
		html, err := documentFormatter(cfg)
		if err != nil {
			return err
		}
		registry.Register(html)
	}

	formatter, err := registry.Get(output.Format(format))
	if err != nil {
		return err
	}
	return formatter.Render(w, result)
}

// documentFormatter builds the branded A4 document renderer
func documentFormatter(cfg *config.Config) (*output.HTMLFormatter, error) {
	logo, err := document.LoadLogo(cfg.Document.LogoPath)
	if err != nil {
		return nil, err
	}
	return &output.HTMLFormatter{Branding: output.Branding{
		VenueName:   cfg.Document.VenueName,
		VenueURL:    cfg.Document.VenueURL,
		LogoDataURI: logo,
	}}, nil
}

func writePDF(ctx context.Context, path string, result *output.Result) error {
	cfg := config.Get()
	html, err := documentFormatter(cfg)
	if err != nil {
		return err
	}
	var doc bytes.Buffer
	if err := html.Render(&doc, result); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	renderer := document.NewChromeRenderer(cfg.Document.ChromePath, cfg.Document.Timeout())
	pdf, err := renderer.RenderPDF(ctx, doc.Bytes())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logging.Info("quote document written", zap.String("path", path), zap.Int("bytes", len(pdf)))
	return nil
}
