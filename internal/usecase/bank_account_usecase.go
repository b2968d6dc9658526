package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
)

// BankAccountUseCase manages bank instruments.
type BankAccountUseCase struct {
	bankRepo BankAccountRepository
	idGen    IDGenerator
}

// NewBankAccountUseCase creates a new BankAccountUseCase.
func NewBankAccountUseCase(bankRepo BankAccountRepository, idGen IDGenerator) *BankAccountUseCase {
	return &BankAccountUseCase{bankRepo: bankRepo, idGen: idGen}
}

// CreateBankAccountInput represents input for creating a bank account.
type CreateBankAccountInput struct {
	Name          string
	BankName      string
	AccountNumber string
}

// CreateBankAccount registers a bank account with an empty subledger.
func (uc *BankAccountUseCase) CreateBankAccount(ctx context.Context, input CreateBankAccountInput) (*domain.BankAccount, error) {
	name := strings.TrimSpace(input.Name)
	if err := domain.ValidateAccountName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.BankAccount{
		ID:             uc.idGen.Generate(),
		Name:           name,
		BankName:       strings.TrimSpace(input.BankName),
		AccountNumber:  strings.TrimSpace(input.AccountNumber),
		CurrentBalance: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.bankRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetBankAccount retrieves a bank account by ID.
func (uc *BankAccountUseCase) GetBankAccount(ctx context.Context, id string) (*domain.BankAccount, error) {
	return uc.bankRepo.GetByID(ctx, id)
}

// ListBankAccounts lists bank accounts by name.
func (uc *BankAccountUseCase) ListBankAccounts(ctx context.Context) ([]*domain.BankAccount, error) {
	return uc.bankRepo.List(ctx)
}
