package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/input"
	"clubbot/internal/ports/output"
)

type ParticipationService struct {
	participationRepo output.ParticipationRepository
	eventRepo         output.EventRepository
	memberRepo        output.MemberRepository
	chat              output.Chat
	translator        output.Translator
	reminders         *ReminderScheduler
	adminIDs          []int64
	adminLocale       string
	log               *zap.Logger
}

func NewParticipationService(
	participationRepo output.ParticipationRepository,
	eventRepo output.EventRepository,
	memberRepo output.MemberRepository,
	chat output.Chat,
	translator output.Translator,
	reminders *ReminderScheduler,
	adminIDs []int64,
	adminLocale string,
	log *zap.Logger,
) *ParticipationService {
	return &ParticipationService{
		participationRepo: participationRepo,
		eventRepo:         eventRepo,
		memberRepo:        memberRepo,
		chat:              chat,
		translator:        translator,
		reminders:         reminders,
		adminIDs:          adminIDs,
		adminLocale:       adminLocale,
		log:               log,
	}
}

// PaymentOptions lists the paths open at the given moment. Advance payment
// is only offered before its deadline; afterwards the full-payment path
// replaces it. On-site is independent of either.
func (s *ParticipationService) PaymentOptions(event *entities.Event, now time.Time) []domain.PaymentOption {
	var opts []domain.PaymentOption
	if event.AllowOnSitePayment {
		opts = append(opts, domain.PaymentOption{Path: domain.PayPathOnSite})
	}
	if event.AdvanceAvailable(now) {
		opts = append(opts, domain.PaymentOption{Path: domain.PayPathAdvance, Amount: event.AdvancePaymentAmount})
	} else if event.FullPaymentAmount != nil {
		opts = append(opts, domain.PaymentOption{Path: domain.PayPathFull, Amount: event.FullPaymentAmount})
	}
	return opts
}

// Join creates the participation row for a (member, event) pair, creating
// the member lazily. A second join for the same pair is rejected.
func (s *ParticipationService) Join(ctx context.Context, req input.JoinRequest) (*entities.Participation, error) {
	event, err := s.eventRepo.FindByID(ctx, req.EventID)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}
	if !event.IsPublished || event.IsCancelled {
		return nil, domain.ErrEventNotFound
	}

	member := req.Member
	if err := s.memberRepo.Upsert(ctx, &member); err != nil {
		return nil, fmt.Errorf("upsert member: %w", err)
	}

	existing, _ := s.participationRepo.FindByEventAndMember(ctx, event.ID, member.ID)
	if existing != nil {
		return nil, domain.ErrAlreadyJoined
	}

	status := domain.StatusPendingPayment
	if req.Path == domain.PayPathOnSite {
		status = domain.StatusPaymentOnSite
	}
	guests := req.GuestsCount
	if guests < 1 {
		guests = 1
	}
	participation := &entities.Participation{
		EventID:             event.ID,
		MemberID:            member.ID,
		Status:              status,
		GuestsCount:         guests,
		Comment:             req.Comment,
		DietaryRestrictions: req.DietaryRestrictions,
		JoinedAt:            time.Now(),
	}
	if err := s.participationRepo.Create(ctx, participation); err != nil {
		return nil, fmt.Errorf("create participation: %w", err)
	}
	return participation, nil
}

// MarkPaid is the member's "I paid" report. It moves the participation to
// payment_confirmation and asks every admin to confirm.
func (s *ParticipationService) MarkPaid(ctx context.Context, telegramID int64, participationID uint) error {
	member, err := s.memberRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return domain.ErrParticipationNotFound
	}
	participation, err := s.participationRepo.FindByID(ctx, participationID)
	if err != nil || participation.MemberID != member.ID {
		return domain.ErrParticipationNotFound
	}
	if participation.Status != domain.StatusPendingPayment {
		return domain.ErrWrongStatus
	}

	participation.Status = domain.StatusPaymentConfirmation
	if err := s.participationRepo.Update(ctx, participation); err != nil {
		return fmt.Errorf("update participation: %w", err)
	}

	event, err := s.eventRepo.FindByID(ctx, participation.EventID)
	if err != nil {
		return domain.ErrEventNotFound
	}
	s.notifyAdmins(ctx, member, event, participation)
	return nil
}

func (s *ParticipationService) notifyAdmins(ctx context.Context, member *entities.Member, event *entities.Event, p *entities.Participation) {
	text := s.translator.T(s.adminLocale, "notify.payment_reported", map[string]any{
		"Member": member.DisplayName(),
		"Event":  event.Title,
	})
	buttons := []output.Button{
		{Label: s.translator.T(s.adminLocale, "button.confirm_payment", nil), Action: fmt.Sprintf("confirmpay:%d", p.ID)},
		{Label: s.translator.T(s.adminLocale, "button.check_later", nil), Action: fmt.Sprintf("checklater:%d", p.ID)},
	}
	for _, adminID := range s.adminIDs {
		if err := s.chat.Reply(ctx, adminID, text, buttons); err != nil {
			s.log.Warn("notify admin failed", zap.Int64("admin", adminID), zap.Error(err))
		}
	}
}

// ConfirmPayment is the admin acknowledgement of a reported payment. The
// member is notified and any pending reminder for the row is disarmed.
func (s *ParticipationService) ConfirmPayment(ctx context.Context, participationID uint) (*entities.Participation, error) {
	participation, err := s.participationRepo.FindByID(ctx, participationID)
	if err != nil {
		return nil, domain.ErrParticipationNotFound
	}
	if participation.Status != domain.StatusPaymentConfirmation {
		return nil, domain.ErrWrongStatus
	}

	participation.Status = domain.StatusPaymentConfirmed
	participation.IsPaid = true
	if err := s.participationRepo.Update(ctx, participation); err != nil {
		return nil, fmt.Errorf("update participation: %w", err)
	}
	s.reminders.Cancel(participation.ID)

	member, err := s.memberRepo.FindByID(ctx, participation.MemberID)
	if err != nil {
		return participation, nil
	}
	event, err := s.eventRepo.FindByID(ctx, participation.EventID)
	if err != nil {
		return participation, nil
	}
	text := s.translator.T(s.adminLocale, "notify.payment_confirmed", map[string]any{"Event": event.Title})
	if err := s.chat.Reply(ctx, member.TelegramID, text); err != nil {
		s.log.Warn("notify member failed", zap.Int64("member", member.TelegramID), zap.Error(err))
	}
	return participation, nil
}

// DeferPaymentCheck arms the one-shot reminder for the acting admin. The
// handle is cancelled if the row leaves payment_confirmation first.
func (s *ParticipationService) DeferPaymentCheck(ctx context.Context, adminChatID int64, locale string, participationID uint) error {
	participation, err := s.participationRepo.FindByID(ctx, participationID)
	if err != nil {
		return domain.ErrParticipationNotFound
	}
	if participation.Status != domain.StatusPaymentConfirmation {
		return domain.ErrWrongStatus
	}

	s.reminders.Schedule(participationID, func() {
		ctx := context.Background()
		p, err := s.participationRepo.FindByID(ctx, participationID)
		if err != nil || p.Status != domain.StatusPaymentConfirmation {
			return
		}
		member, err := s.memberRepo.FindByID(ctx, p.MemberID)
		if err != nil {
			return
		}
		event, err := s.eventRepo.FindByID(ctx, p.EventID)
		if err != nil {
			return
		}
		text := s.translator.T(locale, "notify.payment_reminder", map[string]any{
			"Member": member.DisplayName(),
			"Event":  event.Title,
		})
		buttons := []output.Button{
			{Label: s.translator.T(locale, "button.confirm_payment", nil), Action: fmt.Sprintf("confirmpay:%d", p.ID)},
			{Label: s.translator.T(locale, "button.check_later", nil), Action: fmt.Sprintf("checklater:%d", p.ID)},
		}
		if err := s.chat.Reply(ctx, adminChatID, text, buttons); err != nil {
			s.log.Warn("payment reminder failed", zap.Int64("admin", adminChatID), zap.Error(err))
		}
	})
	return nil
}

// CancelParticipation hard-deletes the member's row for the event. A later
// re-join starts from scratch.
func (s *ParticipationService) CancelParticipation(ctx context.Context, telegramID int64, eventID uint) error {
	member, err := s.memberRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return domain.ErrParticipationNotFound
	}
	participation, err := s.participationRepo.FindByEventAndMember(ctx, eventID, member.ID)
	if err != nil {
		return domain.ErrParticipationNotFound
	}
	if err := s.participationRepo.Delete(ctx, participation.ID); err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}
	s.reminders.Cancel(participation.ID)
	return nil
}

func (s *ParticipationService) ListForMember(ctx context.Context, telegramID int64) ([]entities.Participation, error) {
	member, err := s.memberRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, nil
	}
	return s.participationRepo.FindByMember(ctx, member.ID)
}

func (s *ParticipationService) GetParticipation(ctx context.Context, id uint) (*entities.Participation, error) {
	return s.participationRepo.FindByID(ctx, id)
}
