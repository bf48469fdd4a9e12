package application

import (
	"context"
	"fmt"

	"clubbot/internal/domain"
	"clubbot/internal/domain/entities"
	"clubbot/internal/ports/output"
)

// ContentService manages the admin-editable records that have no lifecycle
// of their own: payment instructions and the club "about" text.
type ContentService struct {
	paymentRepo  output.PaymentDetailsRepository
	clubInfoRepo output.ClubInfoRepository
}

func NewContentService(paymentRepo output.PaymentDetailsRepository, clubInfoRepo output.ClubInfoRepository) *ContentService {
	return &ContentService{paymentRepo: paymentRepo, clubInfoRepo: clubInfoRepo}
}

func (s *ContentService) ListPaymentDetails(ctx context.Context) ([]entities.PaymentDetails, error) {
	return s.paymentRepo.FindAll(ctx)
}

func (s *ContentService) GetPaymentDetails(ctx context.Context, id uint) (*entities.PaymentDetails, error) {
	return s.paymentRepo.FindByID(ctx, id)
}

func (s *ContentService) SavePaymentDetails(ctx context.Context, pd *entities.PaymentDetails) error {
	if pd.ID == 0 {
		if err := s.paymentRepo.Create(ctx, pd); err != nil {
			return fmt.Errorf("create payment details: %w", err)
		}
		return nil
	}
	if err := s.paymentRepo.Update(ctx, pd); err != nil {
		return fmt.Errorf("update payment details: %w", err)
	}
	return nil
}

func (s *ContentService) DeletePaymentDetails(ctx context.Context, id uint) error {
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete payment details: %w", err)
	}
	return nil
}

func (s *ContentService) ClubInfo(ctx context.Context) (string, error) {
	info, err := s.clubInfoRepo.Latest(ctx)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return info.Description, nil
}

func (s *ContentService) SetClubInfo(ctx context.Context, text string) error {
	info, err := s.clubInfoRepo.Latest(ctx)
	if err != nil {
		if !domain.IsNotFound(err) {
			return err
		}
		info = &entities.ClubInfo{}
	}
	info.Description = text
	if err := s.clubInfoRepo.Save(ctx, info); err != nil {
		return fmt.Errorf("save club info: %w", err)
	}
	return nil
}
