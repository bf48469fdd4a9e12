package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/output"
)

var _ output.ParticipationRepository = (*ParticipationRepository)(nil)

type ParticipationRepository struct {
	pool *pgxpool.Pool
}

func NewParticipationRepository(pool *pgxpool.Pool) *ParticipationRepository {
	return &ParticipationRepository{pool: pool}
}

const participationColumns = `id, event_id, member_id, status, is_paid, comment,
	guests_count, dietary_restrictions, joined_at, updated_at`

func scanParticipation(row pgx.Row) (*entities.Participation, error) {
	var p entities.Participation
	err := row.Scan(
		&p.ID, &p.EventID, &p.MemberID, &p.Status, &p.IsPaid, &p.Comment,
		&p.GuestsCount, &p.DietaryRestrictions, &p.JoinedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParticipationRepository) Create(ctx context.Context, p *entities.Participation) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO participations (
			event_id, member_id, status, is_paid, comment, guests_count, dietary_restrictions
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+participationColumns,
		int64(p.EventID), int64(p.MemberID), p.Status, p.IsPaid,
		p.Comment, p.GuestsCount, p.DietaryRestrictions,
	)
	stored, err := scanParticipation(row)
	if err != nil {
		return fmt.Errorf("create participation: %w", err)
	}
	*p = *stored
	return nil
}

func (r *ParticipationRepository) FindByID(ctx context.Context, id uint) (*entities.Participation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+participationColumns+` FROM participations WHERE id = $1`, int64(id))
	p, err := scanParticipation(row)
	if err != nil {
		return nil, fmt.Errorf("get participation by id: %w", notFound(err, domain.ErrParticipationNotFound))
	}
	return p, nil
}

func (r *ParticipationRepository) FindByEventAndMember(ctx context.Context, eventID, memberID uint) (*entities.Participation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+participationColumns+` FROM participations
		WHERE event_id = $1 AND member_id = $2`,
		int64(eventID), int64(memberID))
	p, err := scanParticipation(row)
	if err != nil {
		return nil, fmt.Errorf("get participation by event and member: %w", notFound(err, domain.ErrParticipationNotFound))
	}
	return p, nil
}

func (r *ParticipationRepository) FindByEvent(ctx context.Context, eventID uint) ([]entities.Participation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+participationColumns+` FROM participations
		WHERE event_id = $1 ORDER BY joined_at`, int64(eventID))
	if err != nil {
		return nil, fmt.Errorf("find participations by event: %w", err)
	}
	return collectParticipations(rows)
}

func (r *ParticipationRepository) FindByMember(ctx context.Context, memberID uint) ([]entities.Participation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+participationColumns+` FROM participations
		WHERE member_id = $1 ORDER BY joined_at`, int64(memberID))
	if err != nil {
		return nil, fmt.Errorf("find participations by member: %w", err)
	}
	return collectParticipations(rows)
}

func collectParticipations(rows pgx.Rows) ([]entities.Participation, error) {
	defer rows.Close()
	var out []entities.Participation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ParticipationRepository) Update(ctx context.Context, p *entities.Participation) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE participations SET
			status = $2, is_paid = $3, comment = $4,
			guests_count = $5, dietary_restrictions = $6, updated_at = now()
		WHERE id = $1`,
		int64(p.ID), p.Status, p.IsPaid, p.Comment, p.GuestsCount, p.DietaryRestrictions,
	)
	if err != nil {
		return fmt.Errorf("update participation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipationNotFound
	}
	return nil
}

func (r *ParticipationRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM participations WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipationNotFound
	}
	return nil
}
