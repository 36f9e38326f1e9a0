package models

type ResourceType string

const (
	ResourceTypeSeat ResourceType = "seat"
	ResourceTypeRoom ResourceType = "room"
	ResourceTypeDesk ResourceType = "desk"
)

type PlanType string

const (
	PlanTypeWeekly      PlanType = "weekly"
	PlanTypeHalfMonthly PlanType = "half-monthly"
	PlanTypeMonthly     PlanType = "monthly"
)

// Days returns the plan duration in days. Unknown plans fall back to monthly.
func (p PlanType) Days() int {
	switch p {
	case PlanTypeWeekly:
		return 7
	case PlanTypeHalfMonthly:
		return 15
	default:
		return 30
	}
}

func (p PlanType) Valid() bool {
	switch p {
	case PlanTypeWeekly, PlanTypeHalfMonthly, PlanTypeMonthly:
		return true
	}
	return false
}

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
)

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "unpaid"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

// CustomerTypeVisitor is the customer type for walk-ins without a subscription.
const CustomerTypeVisitor = "visitor"
