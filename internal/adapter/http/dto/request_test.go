package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"calendar day", `"2024-03-15"`, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", `"2024-03-15T10:30:00Z"`, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), false},
		{"garbage", `"15/03/2024"`, time.Time{}, true},
		{"not a string", `20240315`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !d.Equal(tt.want) {
				t.Fatalf("got %v, want %v", d.Time, tt.want)
			}
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Date{time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `"2024-01-02"` {
		t.Fatalf("unexpected encoding %s", b)
	}
}

func TestDate_PtrNil(t *testing.T) {
	var d *Date
	if d.Ptr() != nil {
		t.Fatalf("expected nil pointer for missing date")
	}
}

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	parent := "lvl1"
	req := &CreateAccountRequest{
		ParentID:       &parent,
		Name:           "Cash in hand",
		AccountType:    "customer",
		BalanceType:    "credit",
		OpeningBalance: decimal.NewFromInt(500),
	}

	got := req.ToUseCaseInput(2)

	if got.Level != 2 || got.ParentID != &parent || got.Name != "Cash in hand" {
		t.Fatalf("unexpected placement: %+v", got)
	}
	if got.Type != domain.AccountTypeCustomer || got.BalanceType != domain.BalanceTypeCredit {
		t.Fatalf("expected upper-cased enums, got %s/%s", got.Type, got.BalanceType)
	}
	if !got.OpeningBalance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected opening balance %s", got.OpeningBalance)
	}
}

func TestCreateAccountRequest_DefaultsAccountType(t *testing.T) {
	req := &CreateAccountRequest{Name: "Assets", BalanceType: "DEBIT"}

	got := req.ToUseCaseInput(1)
	if got.Type != domain.AccountTypeAccount {
		t.Fatalf("expected ACCOUNT default, got %s", got.Type)
	}
}

func TestUpdateAccountRequest_ToUseCaseInput(t *testing.T) {
	name := "Renamed"
	bt := "debit"
	req := &UpdateAccountRequest{Name: &name, BalanceType: &bt}

	got := req.ToUseCaseInput("acc-1", 3)

	if got.ID != "acc-1" || got.Level != 3 || *got.Name != "Renamed" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.Type != nil {
		t.Fatalf("expected account type untouched")
	}
	if got.BalanceType == nil || *got.BalanceType != domain.BalanceTypeDebit {
		t.Fatalf("expected DEBIT balance type, got %v", got.BalanceType)
	}
}

func TestTransferRequest_ToUseCaseInput(t *testing.T) {
	var req TransferRequest
	body := `{
		"from_account_id": "supplier",
		"to_account_id": "stock",
		"posting_kind": "purchase",
		"reference_no": "PO-1",
		"amount": "1500.50",
		"date": "2024-02-01",
		"item": {"name": "Cotton", "unit": "kg", "quantity": "100", "price_per_unit": "15.005"}
	}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	got := req.ToUseCaseInput()

	if got.Kind != domain.PostingKindPurchase {
		t.Fatalf("expected PURCHASE, got %s", got.Kind)
	}
	if got.Date == nil || !got.Date.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", got.Date)
	}
	if got.Item == nil || got.Item.Name != "Cotton" || !got.Item.Quantity.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected item %+v", got.Item)
	}
	if !got.Amount.Equal(decimal.RequireFromString("1500.50")) {
		t.Fatalf("unexpected amount %s", got.Amount)
	}
}

func TestPostingRequest_ToUseCaseInputWithoutItem(t *testing.T) {
	req := &PostingRequest{AccountID: "a", EntryType: "debit", Amount: decimal.NewFromInt(1)}

	got := req.ToUseCaseInput()
	if got.Item != nil || got.Date != nil {
		t.Fatalf("expected optional fields to stay nil: %+v", got)
	}
	if got.EntryType != domain.EntryTypeDebit {
		t.Fatalf("expected DEBIT, got %s", got.EntryType)
	}
}

func TestPaymentRequest_ToUseCaseInput(t *testing.T) {
	bank := "bank-1"
	req := &PaymentRequest{AccountID: "cust", PaymentMode: "bank", BankAccountID: &bank, Amount: decimal.NewFromInt(10)}

	got := req.ToUseCaseInput(domain.PaymentReceived)
	if got.Type != domain.PaymentReceived || got.Mode != domain.PaymentModeBank || *got.BankAccountID != "bank-1" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestExpenseRequest_ToUseCaseInput(t *testing.T) {
	req := &ExpenseRequest{AccountID: "rent", PaymentMode: "direct", Category: "Rent", Amount: decimal.NewFromInt(9)}

	got := req.ToUseCaseInput()
	if got.Mode != domain.PaymentModeDirect || got.Category != "Rent" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestCashTransactionRequest_DefaultsToMainBook(t *testing.T) {
	req := &CashTransactionRequest{Type: "credit", Amount: decimal.NewFromInt(5)}

	got := req.ToUseCaseInput()
	if got.Instrument != domain.CashInstrument(domain.DefaultCashBookID) {
		t.Fatalf("expected main cash book, got %v", got.Instrument)
	}
	if got.Type != domain.EntryTypeCredit {
		t.Fatalf("expected CREDIT, got %s", got.Type)
	}
}

func TestBankTransactionRequest_ToUseCaseInput(t *testing.T) {
	req := &BankTransactionRequest{BankAccountID: "b1", Type: "debit", UpdateCash: true, Amount: decimal.NewFromInt(3)}

	got := req.ToUseCaseInput()
	if got.BankAccountID != "b1" || !got.UpdateCash || got.Type != domain.EntryTypeDebit {
		t.Fatalf("unexpected input: %+v", got)
	}
}
