package input

import (
	"context"

	"clubbot/internal/domain/entities"
)

type ContentUseCase interface {
	ListPaymentDetails(ctx context.Context) ([]entities.PaymentDetails, error)
	GetPaymentDetails(ctx context.Context, id uint) (*entities.PaymentDetails, error)
	SavePaymentDetails(ctx context.Context, pd *entities.PaymentDetails) error
	DeletePaymentDetails(ctx context.Context, id uint) error
	ClubInfo(ctx context.Context) (string, error)
	SetClubInfo(ctx context.Context, text string) error
}
