package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"retreat-quote/core/types"
)

const boxWidth = 73

// CLIFormatter prints a boxed summary for terminals
type CLIFormatter struct {
	// ShowDetails prints itemized lines under each party
	ShowDetails bool
}

// Format returns the format type
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the summary table
func (f *CLIFormatter) Render(w io.Writer, result *Result) error {
	if result == nil || result.Breakdown == nil {
		return fmt.Errorf("nothing to render")
	}
	t := &table{w: w}
	b := result.Breakdown

	t.rule("┌", "┐")
	t.center("RETREAT QUOTE SUMMARY")
	t.rule("├", "┤")
	t.row(fmt.Sprintf("Formula %s, room %s", b.Formula, b.Room), fmt.Sprintf("%d nights", b.Nights))
	t.row(fmt.Sprintf("%d participants (%s group)", b.Participants, b.GroupBand),
		fmt.Sprintf("%d bedrooms", b.TotalRooms))
	t.rule("├", "┤")

	t.row("TRAINEES", "")
	if f.ShowDetails {
		t.item("Board and lodging", b.BaseTrainees)
		if b.MaterialPaidBy == types.PayerParticipant && b.MaterialsTotal.IsPositive() {
			t.item("Options and equipment", b.MaterialsTotal)
		}
	}
	t.row("  Trainee total", Money(b.TraineeTotal))
	t.row("  Per trainee", Money(b.PricePerTrainee))
	t.rule("├", "┤")

	t.row("ORGANIZER", "")
	if f.ShowDetails {
		t.item(fmt.Sprintf("Lead facilitator (%d%% off)", b.PrimaryFacilitator.DiscountPercent), b.PrimaryFacilitator.AmountToPay)
		if s := b.SecondaryFacilitator; s != nil {
			t.item(fmt.Sprintf("Second facilitator (%d%% off)", s.DiscountPercent), s.AmountToPay)
		}
		t.item("Practice room", b.RoomBase)
		if b.Heater.IsPositive() {
			t.item("Heater", b.Heater)
		}
		if b.Privatization.IsPositive() {
			t.item(fmt.Sprintf("Privatization (%d empty rooms)", b.EmptyRooms), b.Privatization)
		}
		if b.MaterialPaidBy == types.PayerOrganizer && b.MaterialsTotal.IsPositive() {
			t.item("Options and equipment", b.MaterialsTotal)
		}
	}
	t.row("  Organizer total", Money(b.OrganizerTotal))
	t.rule("├", "┤")
	t.row("GRAND TOTAL", Money(b.GrandTotal))

	if c := result.Comparison; c != nil && c.Upgrade != nil {
		t.rule("├", "┤")
		t.row(fmt.Sprintf("UPGRADE TO %s", strings.ToUpper(string(c.Upgrade.Formula))), "")
		t.row("  Per trainee", signed(c.PricePerTraineeDelta))
		t.row("  Organizer", signed(c.OrganizerDelta))
		t.row("  Grand total", signed(c.GrandDelta))
	}
	t.rule("└", "┘")

	if result.Metadata.RateTableVersion != "" {
		t.printf("\nRates %s (%s), engine %s\n",
			result.Metadata.RateTableVersion, result.Metadata.RateFingerprint, result.Metadata.EngineVersion)
	}
	if result.Metadata.Duration != "" {
		t.printf("Priced in %s\n", result.Metadata.Duration)
	}
	return t.err
}

// table writes box-drawn rows and keeps the first write error
type table struct {
	w   io.Writer
	err error
}

func (t *table) printf(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *table) rule(left, right string) {
	t.printf("%s%s%s\n", left, strings.Repeat("─", boxWidth), right)
}

func (t *table) center(title string) {
	pad := boxWidth - len([]rune(title))
	t.printf("│%s%s%s│\n", strings.Repeat(" ", pad/2), title, strings.Repeat(" ", pad-pad/2))
}

func (t *table) row(label, value string) {
	t.printf("│ %-50s %20s │\n", truncate(label, 50), value)
}

func (t *table) item(label string, amount decimal.Decimal) {
	t.printf("│   └─ %-45s %20s │\n", truncate(label, 45), Money(amount))
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return Money(d)
	}
	return "+" + Money(d)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
