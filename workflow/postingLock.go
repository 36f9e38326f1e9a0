package workflow

import "sync"

// Invoice and payment mutations read-then-write PaidAmount, so all posting
// for one customer must be serialized. This deployment is single-process on
// sqlite, so an in-process named mutex per customer is sufficient; there is
// no second instance to coordinate with.

var customerLocks sync.Map // customerID -> *sync.Mutex

// AcquireCustomerPostingLock serializes posting per customer. The returned
// release function must be deferred by the caller around the whole
// transaction.
func AcquireCustomerPostingLock(customerID string) func() {
	m, _ := customerLocks.LoadOrStore(customerID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
