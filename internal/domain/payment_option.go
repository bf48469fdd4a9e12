package domain

import "github.com/shopspring/decimal"

// Payment paths a joining member can pick. On-site and advance/full are
// independent dimensions: advance is offered only before its deadline, full
// takes its place afterwards.
const (
	PayPathOnSite  = "onsite"
	PayPathAdvance = "advance"
	PayPathFull    = "full"
)

// PaymentOption is one payment path offered to a joining member. Amount is
// nil for the on-site path.
type PaymentOption struct {
	Path   string
	Amount *decimal.Decimal
}
