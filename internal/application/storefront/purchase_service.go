package storefront

import (
	"context"

	"github.com/levelshop/backend/internal/domain/storefront"
)

// PurchaseService builds the messaging link a buyer follows to purchase
type PurchaseService struct {
	accounts *AccountService
	number   string
}

// NewPurchaseService creates a PurchaseService sending buyers to number
func NewPurchaseService(accounts *AccountService, number string) *PurchaseService {
	if number == "" {
		number = storefront.DefaultWhatsAppNumber
	}
	return &PurchaseService{accounts: accounts, number: number}
}

// Link returns the prefilled purchase message and its deep link
func (s *PurchaseService) Link(ctx context.Context, accountID string) (*PurchaseLinkResponse, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &PurchaseLinkResponse{
		AccountID: account.ID,
		Message:   storefront.PurchaseMessage(*account),
		URL:       storefront.PurchaseLink(s.number, *account),
	}, nil
}
