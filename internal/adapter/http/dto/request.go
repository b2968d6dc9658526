package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/usecase"
)

// CreateAccountRequest represents a request to create a chart account.
type CreateAccountRequest struct {
	ParentID       *string         `json:"parent_id,omitempty"`
	Name           string          `json:"name"`
	AccountType    string          `json:"account_type"`
	BalanceType    string          `json:"balance_type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input for the given level.
func (r *CreateAccountRequest) ToUseCaseInput(level int) usecase.CreateAccountInput {
	accountType := domain.AccountType(strings.ToUpper(r.AccountType))
	if accountType == "" {
		accountType = domain.AccountTypeAccount
	}
	return usecase.CreateAccountInput{
		ParentID:       r.ParentID,
		Name:           r.Name,
		Type:           accountType,
		BalanceType:    domain.BalanceType(strings.ToUpper(r.BalanceType)),
		OpeningBalance: r.OpeningBalance,
		Level:          level,
	}
}

// UpdateAccountRequest represents a partial account update.
type UpdateAccountRequest struct {
	Name           *string          `json:"name,omitempty"`
	AccountType    *string          `json:"account_type,omitempty"`
	BalanceType    *string          `json:"balance_type,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput(id string, level int) usecase.UpdateAccountInput {
	input := usecase.UpdateAccountInput{
		Name:           r.Name,
		OpeningBalance: r.OpeningBalance,
		ID:             id,
		Level:          level,
	}
	if r.AccountType != nil {
		t := domain.AccountType(strings.ToUpper(*r.AccountType))
		input.Type = &t
	}
	if r.BalanceType != nil {
		t := domain.BalanceType(strings.ToUpper(*r.BalanceType))
		input.BalanceType = &t
	}
	return input
}

// ItemRequest is optional goods provenance on a posting.
type ItemRequest struct {
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

func (r *ItemRequest) toDomain() *domain.ItemDetail {
	if r == nil {
		return nil
	}
	return &domain.ItemDetail{
		Name:         r.Name,
		Unit:         r.Unit,
		Quantity:     r.Quantity,
		PricePerUnit: r.PricePerUnit,
	}
}

// PostingRequest represents a one-row ledger posting.
type PostingRequest struct {
	Date        *Date           `json:"date,omitempty"`
	Item        *ItemRequest    `json:"item,omitempty"`
	AccountID   string          `json:"account_id"`
	EntryType   string          `json:"entry_type"`
	Kind        string          `json:"posting_kind,omitempty"`
	ReferenceNo string          `json:"reference_no"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *PostingRequest) ToUseCaseInput() usecase.PostSingleInput {
	return usecase.PostSingleInput{
		Date:        r.Date.Ptr(),
		Item:        r.Item.toDomain(),
		AccountID:   r.AccountID,
		EntryType:   domain.EntryType(strings.ToUpper(r.EntryType)),
		Kind:        domain.PostingKind(strings.ToUpper(r.Kind)),
		ReferenceNo: r.ReferenceNo,
		Description: r.Description,
		Amount:      r.Amount,
	}
}

// TransferRequest represents a double-entry posting: a purchase, sale,
// return or any other transfer between two accounts.
type TransferRequest struct {
	Date          *Date           `json:"date,omitempty"`
	Item          *ItemRequest    `json:"item,omitempty"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Kind          string          `json:"posting_kind"`
	ReferenceNo   string          `json:"reference_no"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.PostTransferInput {
	return usecase.PostTransferInput{
		Date:          r.Date.Ptr(),
		Item:          r.Item.toDomain(),
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Kind:          domain.PostingKind(strings.ToUpper(r.Kind)),
		ReferenceNo:   r.ReferenceNo,
		Description:   r.Description,
		Amount:        r.Amount,
	}
}

// PaymentRequest represents a payment received or issued.
type PaymentRequest struct {
	Date          *Date           `json:"date,omitempty"`
	BankAccountID *string         `json:"bank_account_id,omitempty"`
	AccountID     string          `json:"account_id"`
	PaymentMode   string          `json:"payment_mode"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input for the payment direction.
func (r *PaymentRequest) ToUseCaseInput(paymentType domain.PaymentType) usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		Date:          r.Date.Ptr(),
		BankAccountID: r.BankAccountID,
		Type:          paymentType,
		AccountID:     r.AccountID,
		Mode:          domain.PaymentMode(strings.ToUpper(r.PaymentMode)),
		Description:   r.Description,
		Amount:        r.Amount,
	}
}

// LongVoucherRequest represents an account-to-account transfer.
type LongVoucherRequest struct {
	Date          *Date           `json:"date,omitempty"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *LongVoucherRequest) ToUseCaseInput() usecase.LongVoucherInput {
	return usecase.LongVoucherInput{
		Date:          r.Date.Ptr(),
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Description:   r.Description,
		Amount:        r.Amount,
	}
}

// ExpenseRequest represents an expense voucher.
type ExpenseRequest struct {
	Date          *Date           `json:"date,omitempty"`
	BankAccountID *string         `json:"bank_account_id,omitempty"`
	AccountID     string          `json:"account_id"`
	PaymentMode   string          `json:"payment_mode"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *ExpenseRequest) ToUseCaseInput() usecase.RecordExpenseInput {
	return usecase.RecordExpenseInput{
		Date:          r.Date.Ptr(),
		BankAccountID: r.BankAccountID,
		AccountID:     r.AccountID,
		Mode:          domain.PaymentMode(strings.ToUpper(r.PaymentMode)),
		Category:      r.Category,
		Description:   r.Description,
		Amount:        r.Amount,
	}
}

// CreateBankAccountRequest represents a request to register a bank account.
type CreateBankAccountRequest struct {
	Name          string `json:"name"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBankAccountRequest) ToUseCaseInput() usecase.CreateBankAccountInput {
	return usecase.CreateBankAccountInput{
		Name:          r.Name,
		BankName:      r.BankName,
		AccountNumber: r.AccountNumber,
	}
}

// BankTransactionRequest represents a bank deposit or withdrawal. With
// update_cash set the cash book moves the same amount the other way.
type BankTransactionRequest struct {
	Date          *Date           `json:"date,omitempty"`
	BankAccountID string          `json:"bank_account_id"`
	Type          string          `json:"type"`
	Reference     string          `json:"reference"`
	Remarks       string          `json:"remarks"`
	Amount        decimal.Decimal `json:"amount"`
	UpdateCash    bool            `json:"update_cash"`
}

// ToUseCaseInput converts to use case input.
func (r *BankTransactionRequest) ToUseCaseInput() usecase.BankTransactionInput {
	return usecase.BankTransactionInput{
		Date:          r.Date.Ptr(),
		BankAccountID: r.BankAccountID,
		Type:          domain.EntryType(strings.ToUpper(r.Type)),
		Reference:     r.Reference,
		Remarks:       r.Remarks,
		Amount:        r.Amount,
		UpdateCash:    r.UpdateCash,
	}
}

// CashTransactionRequest represents a manual cash-book row.
type CashTransactionRequest struct {
	Date       *Date           `json:"date,omitempty"`
	CashBookID string          `json:"cash_book_id,omitempty"`
	Type       string          `json:"type"`
	Reference  string          `json:"reference"`
	Remarks    string          `json:"remarks"`
	Amount     decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input. An empty book id means the
// main cash book.
func (r *CashTransactionRequest) ToUseCaseInput() usecase.AppendInput {
	return usecase.AppendInput{
		Date:       r.Date.Ptr(),
		Instrument: domain.CashInstrument(r.CashBookID),
		Type:       domain.EntryType(strings.ToUpper(r.Type)),
		Reference:  r.Reference,
		Remarks:    r.Remarks,
		Amount:     r.Amount,
	}
}
