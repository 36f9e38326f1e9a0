package billing

import (
	"fmt"
	"time"

	"github.com/backspacehq/backspace_backend/finance"
	"github.com/backspacehq/backspace_backend/models"
)

// DraftLine is one line of an invoice draft produced by closing a session.
type DraftLine struct {
	Description string
	Quantity    int
	Rate        finance.Money
	Amount      finance.Money
}

// InvoiceDraft is the billable outcome of a closed session, ready to be
// turned into an invoice. Total == TimeCost + InventoryCost always holds.
type InvoiceDraft struct {
	LineItems     []DraftLine
	TimeCost      finance.Money
	InventoryCost finance.Money
	Total         finance.Money
}

// TimeCost computes the time-based charge of a session at the given instant.
// Covered sessions accrue nothing. Elapsed time is floored to whole minutes
// and the resource's daily cap (when set) bounds the result.
func TimeCost(s *models.Session, now time.Time) (finance.Money, error) {
	if s.IsSubscribed {
		return 0, nil
	}
	if now.Before(s.StartedAt) {
		return 0, fmt.Errorf("%w: session end %s before start %s",
			finance.ErrInvalidAmount, now.Format(time.RFC3339), s.StartedAt.Format(time.RFC3339))
	}
	minutes := int(now.Sub(s.StartedAt).Minutes())
	cost := finance.CostForMinutes(minutes, s.ResourceRate)
	if s.ResourceMaxPrice > 0 && cost > s.ResourceMaxPrice {
		cost = s.ResourceMaxPrice
	}
	return cost, nil
}

// InventoryCost totals the session's consumptions at their snapshotted
// prices. Inventory is charged regardless of subscription coverage.
func InventoryCost(s *models.Session) finance.Money {
	var total finance.Money
	for i := range s.InventoryConsumptions {
		total += s.InventoryConsumptions[i].Cost()
	}
	return total
}

// CurrentCost is the session's running total at the given instant.
func CurrentCost(s *models.Session, now time.Time) (finance.Money, error) {
	timeCost, err := TimeCost(s, now)
	if err != nil {
		return 0, err
	}
	return timeCost + InventoryCost(s), nil
}

// Close finalizes a session into an invoice draft: one line for the time
// charge (omitted for covered sessions) plus one line per consumption. The
// session entity itself is not mutated; persisting the completed state and
// freeing the resource happen together in the workflow transaction.
func Close(s *models.Session, now time.Time) (*InvoiceDraft, error) {
	if s.Status != models.SessionStatusActive {
		return nil, fmt.Errorf("%w: session is already closed", ErrInvalidState)
	}
	if now.Before(s.StartedAt) {
		return nil, fmt.Errorf("%w: session end before start", finance.ErrInvalidAmount)
	}

	timeCost, err := TimeCost(s, now)
	if err != nil {
		return nil, err
	}

	draft := &InvoiceDraft{
		TimeCost:      timeCost,
		InventoryCost: InventoryCost(s),
	}

	if !s.IsSubscribed {
		desc := "Session"
		if s.ResourceName != "" {
			desc = fmt.Sprintf("Session at %s", s.ResourceName)
		}
		draft.LineItems = append(draft.LineItems, DraftLine{
			Description: desc,
			Quantity:    1,
			Rate:        timeCost,
			Amount:      timeCost,
		})
	}

	for i := range s.InventoryConsumptions {
		c := &s.InventoryConsumptions[i]
		draft.LineItems = append(draft.LineItems, DraftLine{
			Description: c.ItemName,
			Quantity:    c.Quantity,
			Rate:        c.Price,
			Amount:      c.Cost(),
		})
	}

	draft.Total = draft.TimeCost + draft.InventoryCost
	return draft, nil
}
