package output

import (
	"context"
	"time"

	"clubbot/internal/domain/entities"
)

type EventRepository interface {
	// Create inserts the draft, or returns the existing row when the same
	// draft key was already persisted (retried scene step).
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id uint) (*entities.Event, error)
	// FindUpcoming returns published, non-cancelled events starting after now,
	// ordered by start date.
	FindUpcoming(ctx context.Context, now time.Time) ([]entities.Event, error)
	// FindPast returns published events that started before now, most recent first.
	FindPast(ctx context.Context, now time.Time) ([]entities.Event, error)
	FindAll(ctx context.Context) ([]entities.Event, error)
	Update(ctx context.Context, event *entities.Event) error
	Delete(ctx context.Context, id uint) error
}
