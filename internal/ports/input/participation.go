package input

import (
	"context"
	"time"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
)

// JoinRequest carries everything gathered by the join dialog. Member holds
// the chat identity of the joining user; the member row is created lazily.
type JoinRequest struct {
	Member              entities.Member
	EventID             uint
	Path                string // domain.PayPath*
	GuestsCount         int
	Comment             *string
	DietaryRestrictions *string
}

type ParticipationUseCase interface {
	// PaymentOptions lists the payment paths open for the event at the given
	// moment: advance only before its deadline, full otherwise, on-site
	// independent of either.
	PaymentOptions(event *entities.Event, now time.Time) []domain.PaymentOption
	Join(ctx context.Context, req JoinRequest) (*entities.Participation, error)
	// MarkPaid moves the caller's pending participation to
	// payment_confirmation and notifies the admins.
	MarkPaid(ctx context.Context, telegramID int64, participationID uint) error
	// ConfirmPayment is the admin acknowledgement; it notifies the member and
	// cancels any pending reminder.
	ConfirmPayment(ctx context.Context, participationID uint) (*entities.Participation, error)
	// DeferPaymentCheck schedules the one-shot "check this payment again"
	// reminder for the acting admin.
	DeferPaymentCheck(ctx context.Context, adminChatID int64, locale string, participationID uint) error
	CancelParticipation(ctx context.Context, telegramID int64, eventID uint) error
	ListForMember(ctx context.Context, telegramID int64) ([]entities.Participation, error)
	GetParticipation(ctx context.Context, id uint) (*entities.Participation, error)
}
