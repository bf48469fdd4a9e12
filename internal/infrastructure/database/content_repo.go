package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/output"
)

var _ output.PaymentDetailsRepository = (*PaymentDetailsRepository)(nil)

type PaymentDetailsRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentDetailsRepository(pool *pgxpool.Pool) *PaymentDetailsRepository {
	return &PaymentDetailsRepository{pool: pool}
}

func (r *PaymentDetailsRepository) Create(ctx context.Context, pd *entities.PaymentDetails) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payment_details (title, description)
		VALUES ($1, $2)
		RETURNING id`, pd.Title, pd.Description)
	if err := row.Scan(&pd.ID); err != nil {
		return fmt.Errorf("create payment details: %w", err)
	}
	return nil
}

func (r *PaymentDetailsRepository) FindByID(ctx context.Context, id uint) (*entities.PaymentDetails, error) {
	var pd entities.PaymentDetails
	row := r.pool.QueryRow(ctx, `SELECT id, title, description FROM payment_details WHERE id = $1`, int64(id))
	if err := row.Scan(&pd.ID, &pd.Title, &pd.Description); err != nil {
		return nil, fmt.Errorf("get payment details by id: %w", notFound(err, domain.ErrPaymentDetailsNotFound))
	}
	return &pd, nil
}

func (r *PaymentDetailsRepository) FindAll(ctx context.Context) ([]entities.PaymentDetails, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title, description FROM payment_details ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("find all payment details: %w", err)
	}
	defer rows.Close()
	var out []entities.PaymentDetails
	for rows.Next() {
		var pd entities.PaymentDetails
		if err := rows.Scan(&pd.ID, &pd.Title, &pd.Description); err != nil {
			return nil, fmt.Errorf("scan payment details: %w", err)
		}
		out = append(out, pd)
	}
	return out, rows.Err()
}

func (r *PaymentDetailsRepository) Update(ctx context.Context, pd *entities.PaymentDetails) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payment_details SET title = $2, description = $3 WHERE id = $1`,
		int64(pd.ID), pd.Title, pd.Description)
	if err != nil {
		return fmt.Errorf("update payment details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentDetailsNotFound
	}
	return nil
}

func (r *PaymentDetailsRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payment_details WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete payment details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentDetailsNotFound
	}
	return nil
}

var _ output.ClubInfoRepository = (*ClubInfoRepository)(nil)

type ClubInfoRepository struct {
	pool *pgxpool.Pool
}

func NewClubInfoRepository(pool *pgxpool.Pool) *ClubInfoRepository {
	return &ClubInfoRepository{pool: pool}
}

func (r *ClubInfoRepository) Latest(ctx context.Context) (*entities.ClubInfo, error) {
	var info entities.ClubInfo
	row := r.pool.QueryRow(ctx, `SELECT id, description FROM club_info ORDER BY id DESC LIMIT 1`)
	if err := row.Scan(&info.ID, &info.Description); err != nil {
		return nil, fmt.Errorf("get club info: %w", notFound(err, domain.ErrClubInfoNotFound))
	}
	return &info, nil
}

func (r *ClubInfoRepository) Save(ctx context.Context, info *entities.ClubInfo) error {
	if info.ID == 0 {
		row := r.pool.QueryRow(ctx, `INSERT INTO club_info (description) VALUES ($1) RETURNING id`, info.Description)
		if err := row.Scan(&info.ID); err != nil {
			return fmt.Errorf("create club info: %w", err)
		}
		return nil
	}
	tag, err := r.pool.Exec(ctx, `UPDATE club_info SET description = $2 WHERE id = $1`, int64(info.ID), info.Description)
	if err != nil {
		return fmt.Errorf("update club info: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClubInfoNotFound
	}
	return nil
}
