package domain

// Participation statuses.
//
// payment_on_site is terminal: the member is trusted to pay at the event.
// The pending_payment -> payment_confirmation -> payment_confirmed chain is
// the advance/full payment path. pending_refund exists for cancellation after
// a confirmed payment but no operation produces it automatically.
const (
	StatusPaymentOnSite       = "payment_on_site"
	StatusPendingPayment      = "pending_payment"
	StatusPaymentConfirmation = "payment_confirmation"
	StatusPaymentConfirmed    = "payment_confirmed"
	StatusPendingRefund       = "pending_refund"
)

// Event fields editable through the admin dialog.
type Field string

const (
	FieldTitle           Field = "title"
	FieldDescription     Field = "description"
	FieldLocation        Field = "location"
	FieldStartDate       Field = "start_date"
	FieldEndDate         Field = "end_date"
	FieldOnSitePayment   Field = "on_site_payment"
	FieldFullAmount      Field = "full_amount"
	FieldAdvanceAmount   Field = "advance_amount"
	FieldAdvanceDeadline Field = "advance_deadline"
)
