package output

import (
	"fmt"
	"io"
	"strings"

	"retreat-quote/core/types"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FrenchDate formats a date as "12 juin 2025", or "-" when unset
func FrenchDate(d types.Date) string {
	if d.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d %s %d", d.Day(), frenchMonths[d.Month()-1], d.Year())
}

// MarkdownFormatter writes a short French summary. The notifier renders it
// to HTML for the operator email.
type MarkdownFormatter struct{}

// Format returns the format type
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render writes the summary
func (f *MarkdownFormatter) Render(w io.Writer, result *Result) error {
	if result == nil || result.Breakdown == nil {
		return fmt.Errorf("nothing to render")
	}
	b := result.Breakdown
	var sb strings.Builder

	sb.WriteString("## Simulation de devis\n\n")

	if q := result.Quote; q != nil {
		fmt.Fprintf(&sb, "**Client :** %s  \n", q.Client.FullName())
		fmt.Fprintf(&sb, "**Email :** %s  \n", q.Client.Email)
		fmt.Fprintf(&sb, "**Téléphone :** %s\n\n", q.Client.Phone)
		if q.Client.EventName != "" {
			fmt.Fprintf(&sb, "**Événement :** %s\n\n", q.Client.EventName)
		}
		fmt.Fprintf(&sb, "**Séjour :** %s, du %s au %s\n\n",
			q.Event.Activity.Label(), FrenchDate(q.Event.Start), FrenchDate(q.Event.End))
	}

	sb.WriteString("### Récapitulatif financier\n\n")
	fmt.Fprintf(&sb, "- **Formule :** %s\n", b.Formula.Label())
	fmt.Fprintf(&sb, "- **Salle :** %s\n", b.Room.Label())
	fmt.Fprintf(&sb, "- **Participants :** %d\n", b.Participants)
	fmt.Fprintf(&sb, "- **Nuits :** %d\n", b.Nights)
	fmt.Fprintf(&sb, "- **Total stagiaires :** %s (%s / participant)\n", Money(b.TraineeTotal), Money(b.PricePerTrainee))
	fmt.Fprintf(&sb, "- **Total organisateur :** %s\n", Money(b.OrganizerTotal))
	fmt.Fprintf(&sb, "- **Total général :** %s\n", Money(b.GrandTotal))

	if c := result.Comparison; c != nil && c.Upgrade != nil {
		fmt.Fprintf(&sb, "\nEn formule %s : %s / participant (%s), organisateur %s.\n",
			c.Upgrade.Formula.Label(), Money(c.Upgrade.PricePerTrainee), signed(c.PricePerTraineeDelta), Money(c.Upgrade.OrganizerTotal))
	}

	totals, err := TotalsOf(b).encode()
	if err != nil {
		return err
	}
	fmt.Fprintf(&sb, "\n%s%s%s\n", totalsCommentOpen, totals, totalsCommentEnd)

	_, err = io.WriteString(w, sb.String())
	return err
}
