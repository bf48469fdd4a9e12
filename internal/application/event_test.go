package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubbot/internal/application"
	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/pkg/datetime"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func mustDate(t *testing.T, s string) time.Time {
	parsed, err := datetime.Parse(s)
	require.NoError(t, err)
	return parsed
}

func completeEvent() *entities.Event {
	start := time.Date(2025, 8, 5, 9, 0, 0, 0, time.Local)
	end := time.Date(2025, 8, 5, 15, 0, 0, 0, time.Local)
	return &entities.Event{
		DraftKey:    uuid.New(),
		Title:       "Hike",
		Description: strPtr("Trail walk"),
		StartDate:   timePtr(start),
		EndDate:     timePtr(end),
	}
}

func TestEventService_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("CompleteEventIsPublished", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := application.NewEventService(repo)
		event := completeEvent()
		require.NoError(t, svc.CreateDraft(ctx, event))

		published, err := svc.Publish(ctx, event.ID)

		require.NoError(t, err)
		assert.True(t, published.IsPublished)
	})

	t.Run("IncompleteEventIsRefused", func(t *testing.T) {
		missing := map[string]func(*entities.Event){
			"title":       func(e *entities.Event) { e.Title = "" },
			"description": func(e *entities.Event) { e.Description = nil },
			"start date":  func(e *entities.Event) { e.StartDate = nil },
			"end date":    func(e *entities.Event) { e.EndDate = nil },
		}
		for name, clear := range missing {
			t.Run(name, func(t *testing.T) {
				repo := newFakeEventRepo()
				svc := application.NewEventService(repo)
				event := completeEvent()
				clear(event)
				require.NoError(t, svc.CreateDraft(ctx, event))

				_, err := svc.Publish(ctx, event.ID)

				require.ErrorIs(t, err, domain.ErrEventIncomplete)
				stored, err := svc.GetEvent(ctx, event.ID)
				require.NoError(t, err)
				assert.False(t, stored.IsPublished, "isPublished must stay unchanged on refusal")
			})
		}
	})

	t.Run("MissingEvent", func(t *testing.T) {
		svc := application.NewEventService(newFakeEventRepo())
		_, err := svc.Publish(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
	})
}

func TestEventService_CancelIsOrthogonalToPublish(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	svc := application.NewEventService(repo)
	event := completeEvent()
	require.NoError(t, svc.CreateDraft(ctx, event))
	_, err := svc.Publish(ctx, event.ID)
	require.NoError(t, err)

	cancelled, err := svc.CancelEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled)
	assert.True(t, cancelled.IsPublished, "cancellation must not retract publication")

	restored, err := svc.RestoreEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsCancelled)
}

func TestEventService_UpdateField(t *testing.T) {
	ctx := context.Background()

	newEvent := func(t *testing.T) (*application.EventService, *entities.Event) {
		repo := newFakeEventRepo()
		svc := application.NewEventService(repo)
		event := completeEvent()
		require.NoError(t, svc.CreateDraft(ctx, event))
		return svc, event
	}

	t.Run("AdvanceZeroClearsAmountAndDeadline", func(t *testing.T) {
		svc, event := newEvent(t)
		_, err := svc.UpdateField(ctx, event.ID, domain.FieldAdvanceAmount, "150")
		require.NoError(t, err)
		_, err = svc.UpdateField(ctx, event.ID, domain.FieldAdvanceDeadline, "04.08.2025, 09:00")
		require.NoError(t, err)

		updated, err := svc.UpdateField(ctx, event.ID, domain.FieldAdvanceAmount, "0")

		require.NoError(t, err)
		assert.Nil(t, updated.AdvancePaymentAmount)
		assert.Nil(t, updated.AdvancePaymentDeadline)
	})

	t.Run("DeadlineWithoutAdvanceAmount", func(t *testing.T) {
		svc, event := newEvent(t)
		_, err := svc.UpdateField(ctx, event.ID, domain.FieldAdvanceDeadline, "04.08.2025, 09:00")
		verr, ok := domain.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "error.deadline_without_advance", verr.Key)
	})

	t.Run("DeadlineAfterStartIsRejected", func(t *testing.T) {
		svc, event := newEvent(t)
		_, err := svc.UpdateField(ctx, event.ID, domain.FieldAdvanceAmount, "150")
		require.NoError(t, err)

		_, err = svc.UpdateField(ctx, event.ID, domain.FieldAdvanceDeadline, "06.08.2025, 09:00")

		_, ok := domain.AsValidation(err)
		assert.True(t, ok)
	})

	t.Run("BadDateIsValidationError", func(t *testing.T) {
		svc, event := newEvent(t)
		_, err := svc.UpdateField(ctx, event.ID, domain.FieldStartDate, "next tuesday")

		verr, ok := domain.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "error.bad_date", verr.Key)
		stored, err := svc.GetEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, mustDate(t, "05.08.2025, 09:00"), *stored.StartDate, "rejected input must not mutate the event")
	})

	t.Run("EndBeforeStartIsRejected", func(t *testing.T) {
		svc, event := newEvent(t)
		_, err := svc.UpdateField(ctx, event.ID, domain.FieldEndDate, "04.08.2025, 09:00")
		_, ok := domain.AsValidation(err)
		assert.True(t, ok)
	})

	t.Run("NegativeAmountIsRejected", func(t *testing.T) {
		svc, event := newEvent(t)
		_, err := svc.UpdateField(ctx, event.ID, domain.FieldFullAmount, "-200")
		verr, ok := domain.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "error.bad_amount", verr.Key)
	})
}

func TestEventService_CreateDraftIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	svc := application.NewEventService(repo)

	event := completeEvent()
	require.NoError(t, svc.CreateDraft(ctx, event))
	firstID := event.ID

	// A retried step re-submits the same draft identity.
	retry := completeEvent()
	retry.DraftKey = event.DraftKey
	require.NoError(t, svc.CreateDraft(ctx, retry))

	assert.Equal(t, firstID, retry.ID, "same draft key must not insert a second event")
	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEventService_DraftScenario(t *testing.T) {
	// Admin drafts "Hike" with on-site payment, full amount 200 and advance
	// amount 0, then publishes.
	ctx := context.Background()
	repo := newFakeEventRepo()
	svc := application.NewEventService(repo)

	event := &entities.Event{DraftKey: uuid.New()}
	require.NoError(t, svc.CreateDraft(ctx, event))

	_, err := svc.UpdateField(ctx, event.ID, domain.FieldTitle, "Hike")
	require.NoError(t, err)
	_, err = svc.UpdateField(ctx, event.ID, domain.FieldStartDate, "05.08.2025, 09:00")
	require.NoError(t, err)
	_, err = svc.UpdateField(ctx, event.ID, domain.FieldEndDate, "05.08.2025, 15:00")
	require.NoError(t, err)
	_, err = svc.UpdateField(ctx, event.ID, domain.FieldDescription, "Trail walk")
	require.NoError(t, err)
	_, err = svc.UpdateField(ctx, event.ID, domain.FieldOnSitePayment, "yes")
	require.NoError(t, err)
	_, err = svc.UpdateField(ctx, event.ID, domain.FieldFullAmount, "200")
	require.NoError(t, err)
	current, err := svc.UpdateField(ctx, event.ID, domain.FieldAdvanceAmount, "0")
	require.NoError(t, err)

	assert.Nil(t, current.AdvancePaymentDeadline)
	assert.False(t, current.IsPublished)
	require.NotNil(t, current.FullPaymentAmount)
	assert.True(t, current.FullPaymentAmount.Equal(decimal.NewFromInt(200)))

	published, err := svc.Publish(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
}

func TestParseAmount(t *testing.T) {
	t.Run("AcceptsCommaSeparator", func(t *testing.T) {
		amount, err := application.ParseAmount("199,50")
		require.NoError(t, err)
		assert.True(t, amount.Equal(decimal.RequireFromString("199.50")))
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		_, err := application.ParseAmount("two hundred")
		assert.Error(t, err)
	})

	t.Run("RejectsNegative", func(t *testing.T) {
		_, err := application.ParseAmount("-5")
		assert.Error(t, err)
	})
}
