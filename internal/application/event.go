package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/output"
	"clubbot/pkg/datetime"
)

type EventService struct {
	eventRepo output.EventRepository
}

func NewEventService(eventRepo output.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

func (s *EventService) CreateDraft(ctx context.Context, event *entities.Event) error {
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event draft: %w", err)
	}
	return nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (*entities.Event, error) {
	return s.eventRepo.FindByID(ctx, id)
}

func (s *EventService) ListUpcoming(ctx context.Context, now time.Time) ([]entities.Event, error) {
	return s.eventRepo.FindUpcoming(ctx, now)
}

func (s *EventService) ListPast(ctx context.Context, now time.Time) ([]entities.Event, error) {
	return s.eventRepo.FindPast(ctx, now)
}

func (s *EventService) ListAll(ctx context.Context) ([]entities.Event, error) {
	return s.eventRepo.FindAll(ctx)
}

// UpdateField validates one field's raw user input and persists it.
// An advance amount of exactly zero clears both the amount and its deadline.
func (s *EventService) UpdateField(ctx context.Context, id uint, field domain.Field, value string) (*entities.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)

	switch field {
	case domain.FieldTitle:
		if value == "" {
			return nil, &domain.ValidationError{Key: "error.empty_text"}
		}
		event.Title = value

	case domain.FieldDescription:
		if value == "" {
			return nil, &domain.ValidationError{Key: "error.empty_text"}
		}
		event.Description = &value

	case domain.FieldLocation:
		if value == "" {
			return nil, &domain.ValidationError{Key: "error.empty_text"}
		}
		event.Location = &value

	case domain.FieldStartDate:
		t, err := datetime.Parse(value)
		if err != nil {
			return nil, &domain.ValidationError{Key: "error.bad_date"}
		}
		event.StartDate = &t

	case domain.FieldEndDate:
		t, err := datetime.Parse(value)
		if err != nil {
			return nil, &domain.ValidationError{Key: "error.bad_date"}
		}
		if event.StartDate != nil && t.Before(*event.StartDate) {
			return nil, &domain.ValidationError{Key: "error.end_before_start"}
		}
		event.EndDate = &t

	case domain.FieldOnSitePayment:
		switch value {
		case "yes":
			event.AllowOnSitePayment = true
		case "no":
			event.AllowOnSitePayment = false
		default:
			return nil, &domain.ValidationError{Key: "error.yes_or_no"}
		}

	case domain.FieldFullAmount:
		amount, err := ParseAmount(value)
		if err != nil {
			return nil, &domain.ValidationError{Key: "error.bad_amount"}
		}
		if amount.IsZero() {
			event.FullPaymentAmount = nil
		} else {
			event.FullPaymentAmount = &amount
		}

	case domain.FieldAdvanceAmount:
		amount, err := ParseAmount(value)
		if err != nil {
			return nil, &domain.ValidationError{Key: "error.bad_amount"}
		}
		if amount.IsZero() {
			event.AdvancePaymentAmount = nil
			event.AdvancePaymentDeadline = nil
		} else {
			event.AdvancePaymentAmount = &amount
		}

	case domain.FieldAdvanceDeadline:
		if event.AdvancePaymentAmount == nil {
			return nil, &domain.ValidationError{Key: "error.deadline_without_advance"}
		}
		t, err := datetime.Parse(value)
		if err != nil {
			return nil, &domain.ValidationError{Key: "error.bad_date"}
		}
		if event.StartDate != nil && t.After(*event.StartDate) {
			return nil, &domain.ValidationError{Key: "error.deadline_after_start"}
		}
		event.AdvancePaymentDeadline = &t

	default:
		return nil, fmt.Errorf("update field: unknown field %q", field)
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// Publish flips isPublished, refusing incomplete events.
func (s *EventService) Publish(ctx context.Context, id uint) (*entities.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsComplete() {
		return nil, domain.ErrEventIncomplete
	}
	event.IsPublished = true
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("publish event: %w", err)
	}
	return event, nil
}

func (s *EventService) Unpublish(ctx context.Context, id uint) (*entities.Event, error) {
	return s.setFlags(ctx, id, func(e *entities.Event) { e.IsPublished = false })
}

// CancelEvent marks the event cancelled. Cancellation is orthogonal to
// publication: it does not retract isPublished.
func (s *EventService) CancelEvent(ctx context.Context, id uint) (*entities.Event, error) {
	return s.setFlags(ctx, id, func(e *entities.Event) { e.IsCancelled = true })
}

func (s *EventService) RestoreEvent(ctx context.Context, id uint) (*entities.Event, error) {
	return s.setFlags(ctx, id, func(e *entities.Event) { e.IsCancelled = false })
}

func (s *EventService) setFlags(ctx context.Context, id uint, mutate func(*entities.Event)) (*entities.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(event)
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event flags: %w", err)
	}
	return event, nil
}

// DeleteEvent is terminal; the confirmation dialog has already gated it.
func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ParseAmount parses a non-negative money amount. A comma decimal separator
// is accepted alongside the dot.
func ParseAmount(value string) (decimal.Decimal, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", value, err)
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: negative", value)
	}
	return amount, nil
}
