package output

import (
	"context"

	"clubbot/internal/domain/entities"
)

type PaymentDetailsRepository interface {
	Create(ctx context.Context, pd *entities.PaymentDetails) error
	FindByID(ctx context.Context, id uint) (*entities.PaymentDetails, error)
	FindAll(ctx context.Context) ([]entities.PaymentDetails, error)
	Update(ctx context.Context, pd *entities.PaymentDetails) error
	Delete(ctx context.Context, id uint) error
}

type ClubInfoRepository interface {
	// Latest returns the most recent record, ErrClubInfoNotFound when none exists.
	Latest(ctx context.Context) (*entities.ClubInfo, error)
	Save(ctx context.Context, info *entities.ClubInfo) error
}
