package input

import (
	"context"
	"time"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
)

type EventUseCase interface {
	CreateDraft(ctx context.Context, event *entities.Event) error
	GetEvent(ctx context.Context, id uint) (*entities.Event, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]entities.Event, error)
	ListPast(ctx context.Context, now time.Time) ([]entities.Event, error)
	ListAll(ctx context.Context) ([]entities.Event, error)
	// UpdateField validates raw user input for one field and persists it.
	UpdateField(ctx context.Context, id uint, field domain.Field, value string) (*entities.Event, error)
	Publish(ctx context.Context, id uint) (*entities.Event, error)
	Unpublish(ctx context.Context, id uint) (*entities.Event, error)
	CancelEvent(ctx context.Context, id uint) (*entities.Event, error)
	RestoreEvent(ctx context.Context, id uint) (*entities.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
}
