package scenes

import (
	"strings"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/scene"
	"clubbot/pkg/datetime"
)

// eventCard renders one event as a chat message.
func (s *Scenes) eventCard(u scene.User, e *entities.Event) string {
	var b strings.Builder
	title := e.Title
	if title == "" {
		title = s.t(u, "card.untitled", nil)
	}
	b.WriteString(title)

	if e.StartDate != nil {
		when := datetime.Format(*e.StartDate)
		if e.EndDate != nil {
			when += " — " + datetime.Format(*e.EndDate)
		}
		b.WriteString("\n" + s.t(u, "card.when", map[string]any{"When": when}))
	}
	if e.Location != nil {
		b.WriteString("\n" + s.t(u, "card.location", map[string]any{"Location": *e.Location}))
	}
	if e.Description != nil {
		b.WriteString("\n\n" + *e.Description)
	}

	var terms []string
	if e.AllowOnSitePayment {
		terms = append(terms, s.t(u, "card.pay_onsite", nil))
	}
	if e.FullPaymentAmount != nil {
		terms = append(terms, s.t(u, "card.pay_full", map[string]any{"Amount": e.FullPaymentAmount.String()}))
	}
	if e.AdvancePaymentAmount != nil {
		data := map[string]any{"Amount": e.AdvancePaymentAmount.String()}
		if e.AdvancePaymentDeadline != nil {
			data["Deadline"] = datetime.Format(*e.AdvancePaymentDeadline)
			terms = append(terms, s.t(u, "card.pay_advance_deadline", data))
		} else {
			terms = append(terms, s.t(u, "card.pay_advance", data))
		}
	}
	if len(terms) > 0 {
		b.WriteString("\n\n" + strings.Join(terms, "\n"))
	}

	switch {
	case e.IsCancelled:
		b.WriteString("\n\n" + s.t(u, "card.cancelled", nil))
	case !e.IsPublished:
		b.WriteString("\n\n" + s.t(u, "card.draft", nil))
	}
	return b.String()
}

// statusKey maps a participation status to its display message id.
func statusKey(status string) string {
	switch status {
	case domain.StatusPaymentOnSite:
		return "status.payment_on_site"
	case domain.StatusPendingPayment:
		return "status.pending_payment"
	case domain.StatusPaymentConfirmation:
		return "status.payment_confirmation"
	case domain.StatusPaymentConfirmed:
		return "status.payment_confirmed"
	case domain.StatusPendingRefund:
		return "status.pending_refund"
	}
	return "status.unknown"
}
