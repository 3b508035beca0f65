package pricing

import (
	"github.com/shopspring/decimal"

	"retreat-quote/core/ratetable"
	"retreat-quote/core/types"
)

// Comparison puts the current quote next to the same selection one formula up
type Comparison struct {
	Current *types.Breakdown `json:"current"`

	// Upgrade is nil when the selection is already on the top formula
	Upgrade *types.Breakdown `json:"upgrade,omitempty"`

	TraineeDelta         decimal.Decimal `json:"trainee_delta"`
	PricePerTraineeDelta decimal.Decimal `json:"price_per_trainee_delta"`
	OrganizerDelta       decimal.Decimal `json:"organizer_delta"`
	GrandDelta           decimal.Decimal `json:"grand_delta"`
}

// HasUpgrade reports whether a higher formula exists
func (c *Comparison) HasUpgrade() bool {
	return c.Upgrade != nil
}

// CompareUpgrade prices the selection and its next formula up. Deltas are
// upgrade minus current.
func CompareUpgrade(sel types.Selection, dates types.EventDates, rates *ratetable.RateTable) (*Comparison, error) {
	current, err := Compute(sel, dates, rates)
	if err != nil {
		return nil, err
	}
	cmp := &Comparison{Current: current}

	next, ok := sel.Formula.Next()
	if !ok {
		return cmp, nil
	}
	upgrade, err := Compute(sel.WithFormula(next), dates, rates)
	if err != nil {
		return nil, err
	}
	cmp.Upgrade = upgrade
	cmp.TraineeDelta = upgrade.TraineeTotal.Sub(current.TraineeTotal)
	cmp.PricePerTraineeDelta = upgrade.PricePerTrainee.Sub(current.PricePerTrainee)
	cmp.OrganizerDelta = upgrade.OrganizerTotal.Sub(current.OrganizerTotal)
	cmp.GrandDelta = upgrade.GrandTotal.Sub(current.GrandTotal)
	return cmp, nil
}
