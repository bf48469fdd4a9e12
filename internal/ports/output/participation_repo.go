package output

import (
	"context"

	"clubbot/internal/domain/entities"
)

type ParticipationRepository interface {
	Create(ctx context.Context, p *entities.Participation) error
	FindByID(ctx context.Context, id uint) (*entities.Participation, error)
	// FindByEventAndMember is the (member, event) uniqueness lookup.
	FindByEventAndMember(ctx context.Context, eventID, memberID uint) (*entities.Participation, error)
	FindByEvent(ctx context.Context, eventID uint) ([]entities.Participation, error)
	FindByMember(ctx context.Context, memberID uint) ([]entities.Participation, error)
	Update(ctx context.Context, p *entities.Participation) error
	// Delete removes the row for good; participation cancellation is a hard delete.
	Delete(ctx context.Context, id uint) error
}
