package billing

import (
	"time"

	"github.com/backspacehq/backspace_backend/models"
)

// Coverage is the result of resolving whether a subscription offsets a
// session's time cost. It is decided once, at session start, and snapshotted
// on the session: a subscription expiring mid-session does not flip a running
// session back to hourly billing.
type Coverage struct {
	Covered        bool
	SubscriptionID string
}

// ResolveCoverage picks the subscription covering the given instant, if any.
// When several subscriptions are active at once the one ending soonest wins,
// with the ID as a final tie break, so the choice never depends on the order
// rows came back from the database.
func ResolveCoverage(subs []models.Subscription, now time.Time) Coverage {
	var pick *models.Subscription
	for i := range subs {
		s := &subs[i]
		if !s.ActiveAt(now) {
			continue
		}
		if pick == nil ||
			s.EndDate.Before(pick.EndDate) ||
			(s.EndDate.Equal(pick.EndDate) && s.ID < pick.ID) {
			pick = s
		}
	}
	if pick == nil {
		return Coverage{}
	}
	return Coverage{Covered: true, SubscriptionID: pick.ID}
}
