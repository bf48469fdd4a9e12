package output

import (
	"context"

	"clubbot/internal/domain/entities"
)

type MemberRepository interface {
	// Upsert creates the member on first contact or refreshes the name
	// fields, keyed by the unique Telegram id.
	Upsert(ctx context.Context, m *entities.Member) error
	FindByTelegramID(ctx context.Context, telegramID int64) (*entities.Member, error)
	FindByID(ctx context.Context, id uint) (*entities.Member, error)
}
