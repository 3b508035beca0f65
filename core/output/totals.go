package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"retreat-quote/core/types"
)

// Documents and emails carry the headline totals in a machine-readable
// block so readers never re-derive them from the printed text.
const (
	totalsScriptOpen  = `<script type="application/json" id="quote-totals">`
	totalsScriptClose = `</script>`
	totalsCommentOpen = `<!-- quote-totals `
	totalsCommentEnd  = ` -->`
)

// Totals are the headline figures of a breakdown
type Totals struct {
	TraineeTotal     decimal.Decimal `json:"trainee_total"`
	PricePerTrainee  decimal.Decimal `json:"price_per_trainee"`
	OrganizerTotal   decimal.Decimal `json:"organizer_total"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	Currency         string          `json:"currency"`
	RateTableVersion string          `json:"rate_table_version"`
}

// TotalsOf copies the headline figures out of a breakdown
func TotalsOf(b *types.Breakdown) Totals {
	return Totals{
		TraineeTotal:     b.TraineeTotal,
		PricePerTrainee:  b.PricePerTrainee,
		OrganizerTotal:   b.OrganizerTotal,
		GrandTotal:       b.GrandTotal,
		Currency:         b.Currency,
		RateTableVersion: b.RateTableVersion,
	}
}

// Equal compares amounts by value
func (t Totals) Equal(o Totals) bool {
	return t.TraineeTotal.Equal(o.TraineeTotal) &&
		t.PricePerTrainee.Equal(o.PricePerTrainee) &&
		t.OrganizerTotal.Equal(o.OrganizerTotal) &&
		t.GrandTotal.Equal(o.GrandTotal) &&
		t.Currency == o.Currency &&
		t.RateTableVersion == o.RateTableVersion
}

// TotalsScript returns the totals block HTML documents and emails carry.
// ReadTotals reads it back.
func TotalsScript(b *types.Breakdown) (string, error) {
	raw, err := TotalsOf(b).encode()
	if err != nil {
		return "", err
	}
	return totalsScriptOpen + string(raw) + totalsScriptClose, nil
}

func (t Totals) encode() ([]byte, error) {
	// json.Marshal escapes <, > and & so the block cannot close its container
	return json.Marshal(t)
}

// ReadTotals extracts the totals block from an HTML document or a markdown
// summary produced by this package.
func ReadTotals(doc []byte) (Totals, error) {
	raw, ok := between(doc, totalsScriptOpen, totalsScriptClose)
	if !ok {
		raw, ok = between(doc, totalsCommentOpen, totalsCommentEnd)
	}
	if !ok {
		return Totals{}, fmt.Errorf("no quote totals found")
	}
	var t Totals
	if err := json.Unmarshal(bytes.TrimSpace(raw), &t); err != nil {
		return Totals{}, fmt.Errorf("invalid quote totals: %w", err)
	}
	return t, nil
}

func between(doc []byte, open, close string) ([]byte, bool) {
	start := bytes.Index(doc, []byte(open))
	if start < 0 {
		return nil, false
	}
	rest := doc[start+len(open):]
	end := bytes.Index(rest, []byte(close))
	if end < 0 {
		return nil, false
	}
	return rest[:end], true
}
