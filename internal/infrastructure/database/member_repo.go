package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/output"
)

var _ output.MemberRepository = (*MemberRepository)(nil)

type MemberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const memberColumns = `id, telegram_id, first_name, last_name, username, created_at, updated_at`

// Upsert creates the member on first contact, or refreshes the profile
// fields Telegram reported with this update.
func (r *MemberRepository) Upsert(ctx context.Context, m *entities.Member) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO members (telegram_id, first_name, last_name, username)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			username = excluded.username,
			updated_at = now()
		RETURNING `+memberColumns,
		m.TelegramID, m.FirstName, m.LastName, m.Username,
	)
	err := row.Scan(&m.ID, &m.TelegramID, &m.FirstName, &m.LastName, &m.Username, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return nil
}

func (r *MemberRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*entities.Member, error) {
	var m entities.Member
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE telegram_id = $1`, telegramID)
	err := row.Scan(&m.ID, &m.TelegramID, &m.FirstName, &m.LastName, &m.Username, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get member by telegram id: %w", notFound(err, domain.ErrMemberNotFound))
	}
	return &m, nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id uint) (*entities.Member, error) {
	var m entities.Member
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, int64(id))
	err := row.Scan(&m.ID, &m.TelegramID, &m.FirstName, &m.LastName, &m.Username, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get member by id: %w", notFound(err, domain.ErrMemberNotFound))
	}
	return &m, nil
}
