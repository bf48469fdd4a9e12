package entities

// PaymentDetails is an admin-managed payment instruction record (bank
// account, transfer comment and so on), independent of any event.
type PaymentDetails struct {
	ID          uint
	Title       string
	Description string
}
