package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/usecase"
)

// AccountResponse represents a chart account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	ParentID       *string         `json:"parent_id"`
	Level          int             `json:"level"`
	Name           string          `json:"name"`
	AccountType    string          `json:"account_type"`
	BalanceType    string          `json:"balance_type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		ParentID:       a.ParentID,
		Level:          a.Level,
		Name:           a.Name,
		AccountType:    string(a.Type),
		BalanceType:    string(a.BalanceType),
		OpeningBalance: a.OpeningBalance,
		CurrentBalance: a.CurrentBalance,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// AccountNodeResponse is an account with its nested children.
type AccountNodeResponse struct {
	*AccountResponse
	Children []*AccountNodeResponse `json:"children"`
}

// HierarchyFromDomain converts a chart tree to responses.
func HierarchyFromDomain(nodes []*domain.AccountNode) []*AccountNodeResponse {
	result := make([]*AccountNodeResponse, len(nodes))
	for i, n := range nodes {
		result[i] = &AccountNodeResponse{
			AccountResponse: AccountFromDomain(n.Account),
			Children:        HierarchyFromDomain(n.Children),
		}
	}
	return result
}

// ResolveResponse is the unified id of an account and its level.
type ResolveResponse struct {
	UnifiedID string `json:"unified_id"`
	Level     int    `json:"level"`
	Name      string `json:"name"`
}

// ItemResponse is goods provenance attached to a ledger row.
type ItemResponse struct {
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// TransactionResponse represents a ledger row.
type TransactionResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	TransactionDate Date            `json:"transaction_date"`
	ReferenceNo     string          `json:"reference_no"`
	EntryType       string          `json:"entry_type"`
	PostingKind     string          `json:"posting_kind"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	IsOpening       bool            `json:"is_opening"`
	OpeningAmount   decimal.Decimal `json:"opening_amount"`
	Item            *ItemResponse   `json:"item,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a ledger row to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:              t.ID,
		AccountID:       t.AccountID,
		TransactionDate: Date{t.TransactionDate},
		ReferenceNo:     t.ReferenceNo,
		EntryType:       string(t.EntryType),
		PostingKind:     string(t.Kind),
		Amount:          t.Amount,
		Description:     t.Description,
		IsOpening:       t.IsOpening,
		OpeningAmount:   t.OpeningAmount,
		CreatedAt:       t.CreatedAt,
	}
	if t.Item != nil {
		resp.Item = &ItemResponse{
			Name:         t.Item.Name,
			Unit:         t.Item.Unit,
			Quantity:     t.Item.Quantity,
			PricePerUnit: t.Item.PricePerUnit,
		}
	}
	return resp
}

// TransactionsFromDomain converts ledger rows to responses.
func TransactionsFromDomain(rows []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(rows))
	for i, t := range rows {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// BalanceResponse is the opening, movement and closing of a window.
type BalanceResponse struct {
	AccountID      string          `json:"account_id"`
	Name           string          `json:"name"`
	Level          int             `json:"level"`
	BalanceType    string          `json:"balance_type"`
	StartDate      Date            `json:"start_date"`
	EndDate        Date            `json:"end_date"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	Net            decimal.Decimal `json:"net"`
	NetLabel       string          `json:"net_label"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// BalanceFromDomain converts an account balance to response.
func BalanceFromDomain(b *domain.AccountBalance) *BalanceResponse {
	net := b.Movement.Net()
	return &BalanceResponse{
		AccountID:      b.AccountID,
		Name:           b.Name,
		Level:          b.Level,
		BalanceType:    string(b.BalanceType),
		StartDate:      Date{b.StartDate},
		EndDate:        Date{b.EndDate},
		OpeningBalance: b.Opening,
		TotalDebit:     b.Movement.Debit,
		TotalCredit:    b.Movement.Credit,
		Net:            net,
		NetLabel:       domain.NetLabel(net),
		ClosingBalance: b.Closing,
	}
}

// LedgerResponse is a window's balance and the rows inside it.
type LedgerResponse struct {
	*BalanceResponse
	Transactions []*TransactionResponse `json:"transactions"`
}

// LedgerFromUseCase converts a ledger view to response.
func LedgerFromUseCase(v *usecase.LedgerView) *LedgerResponse {
	return &LedgerResponse{
		BalanceResponse: BalanceFromDomain(v.Balance),
		Transactions:    TransactionsFromDomain(v.Transactions),
	}
}

// StatementLineResponse is a ledger row with the running balance after it.
type StatementLineResponse struct {
	*TransactionResponse
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// StatementResponse is a running-balance statement.
type StatementResponse struct {
	*BalanceResponse
	Lines      []*StatementLineResponse `json:"lines"`
	Consistent bool                     `json:"consistent"`
}

// StatementFromUseCase converts a statement to response.
func StatementFromUseCase(s *usecase.Statement) *StatementResponse {
	lines := make([]*StatementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = &StatementLineResponse{
			TransactionResponse: TransactionFromDomain(l.Transaction),
			RunningBalance:      l.Balance,
		}
	}
	return &StatementResponse{
		BalanceResponse: BalanceFromDomain(s.Balance),
		Lines:           lines,
		Consistent:      s.Balance.Consistent(),
	}
}

// SubledgerEntryResponse represents a cash or bank subledger row.
type SubledgerEntryResponse struct {
	ID              int64           `json:"id"`
	InstrumentKind  string          `json:"instrument_kind"`
	InstrumentID    string          `json:"instrument_id"`
	InstrumentName  string          `json:"instrument_name,omitempty"`
	Type            string          `json:"type"`
	Origin          string          `json:"origin"`
	Reference       string          `json:"reference"`
	Remarks         string          `json:"remarks"`
	TransferGroupID *string         `json:"transfer_group_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Balance         decimal.Decimal `json:"balance"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	TransactionDate Date            `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SubledgerEntryFromDomain converts a subledger row to response.
func SubledgerEntryFromDomain(e *domain.SubledgerEntry) *SubledgerEntryResponse {
	if e == nil {
		return nil
	}
	return &SubledgerEntryResponse{
		ID:              e.ID,
		InstrumentKind:  string(e.Instrument.Kind),
		InstrumentID:    e.Instrument.ID,
		InstrumentName:  e.InstrumentName,
		Type:            string(e.Type),
		Origin:          string(e.Origin),
		Reference:       e.Reference,
		Remarks:         e.Remarks,
		TransferGroupID: e.TransferGroupID,
		Amount:          e.Amount,
		Balance:         e.Balance,
		BalanceAfter:    e.BalanceAfter,
		TransactionDate: Date{e.TransactionDate},
		CreatedAt:       e.CreatedAt,
	}
}

// SubledgerEntriesFromDomain converts subledger rows to responses.
func SubledgerEntriesFromDomain(entries []*domain.SubledgerEntry) []*SubledgerEntryResponse {
	result := make([]*SubledgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = SubledgerEntryFromDomain(e)
	}
	return result
}

// PaymentResponse is a payment voucher with everything it posted.
type PaymentResponse struct {
	ID            string                  `json:"id"`
	VoucherNo     string                  `json:"voucher_no"`
	PaymentType   string                  `json:"payment_type"`
	AccountID     string                  `json:"account_id"`
	PaymentMode   string                  `json:"payment_mode"`
	BankAccountID *string                 `json:"bank_account_id,omitempty"`
	Amount        decimal.Decimal         `json:"amount"`
	PaymentDate   Date                    `json:"payment_date"`
	Description   string                  `json:"description"`
	Transactions  []*TransactionResponse  `json:"transactions"`
	Subledger     *SubledgerEntryResponse `json:"subledger_entry,omitempty"`
}

// PaymentFromUseCase converts a payment result to response.
func PaymentFromUseCase(r *usecase.PaymentResult) *PaymentResponse {
	p := r.Payment
	return &PaymentResponse{
		ID:            p.ID,
		VoucherNo:     p.VoucherNo,
		PaymentType:   string(p.Type),
		AccountID:     p.AccountID,
		PaymentMode:   string(p.Mode),
		BankAccountID: p.BankAccountID,
		Amount:        p.Amount,
		PaymentDate:   Date{p.PaymentDate},
		Description:   p.Description,
		Transactions:  TransactionsFromDomain(r.Transactions),
		Subledger:     SubledgerEntryFromDomain(r.Subledger),
	}
}

// ExpenseResponse is an expense voucher with everything it posted.
type ExpenseResponse struct {
	ID            string                  `json:"id"`
	VoucherNo     string                  `json:"voucher_no"`
	AccountID     string                  `json:"account_id"`
	PaymentMode   string                  `json:"payment_mode"`
	BankAccountID *string                 `json:"bank_account_id,omitempty"`
	Category      string                  `json:"category"`
	Amount        decimal.Decimal         `json:"amount"`
	ExpenseDate   Date                    `json:"expense_date"`
	Description   string                  `json:"description"`
	Transactions  []*TransactionResponse  `json:"transactions"`
	Subledger     *SubledgerEntryResponse `json:"subledger_entry,omitempty"`
}

// ExpenseFromUseCase converts an expense result to response.
func ExpenseFromUseCase(r *usecase.ExpenseResult) *ExpenseResponse {
	e := r.Expense
	return &ExpenseResponse{
		ID:            e.ID,
		VoucherNo:     e.VoucherNo,
		AccountID:     e.AccountID,
		PaymentMode:   string(e.Mode),
		BankAccountID: e.BankAccountID,
		Category:      e.Category,
		Amount:        e.Amount,
		ExpenseDate:   Date{e.ExpenseDate},
		Description:   e.Description,
		Transactions:  TransactionsFromDomain(r.Transactions),
		Subledger:     SubledgerEntryFromDomain(r.Subledger),
	}
}

// BankAccountResponse represents a bank account.
type BankAccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	BankName       string          `json:"bank_name"`
	AccountNumber  string          `json:"account_number"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BankAccountFromDomain converts a bank account to response.
func BankAccountFromDomain(b *domain.BankAccount) *BankAccountResponse {
	return &BankAccountResponse{
		ID:             b.ID,
		Name:           b.Name,
		BankName:       b.BankName,
		AccountNumber:  b.AccountNumber,
		CurrentBalance: b.CurrentBalance,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// BankAccountsFromDomain converts bank accounts to responses.
func BankAccountsFromDomain(accounts []*domain.BankAccount) []*BankAccountResponse {
	result := make([]*BankAccountResponse, len(accounts))
	for i, b := range accounts {
		result[i] = BankAccountFromDomain(b)
	}
	return result
}

// CashBookResponse represents a cash book with its balance.
type CashBookResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CashBooksFromDomain converts cash books to responses.
func CashBooksFromDomain(books []*domain.CashBook) []*CashBookResponse {
	result := make([]*CashBookResponse, len(books))
	for i, b := range books {
		result[i] = &CashBookResponse{
			ID:             b.ID,
			Name:           b.Name,
			CurrentBalance: b.CurrentBalance,
			UpdatedAt:      b.UpdatedAt,
		}
	}
	return result
}

// ChainBreakResponse is the first row that does not continue a chain.
type ChainBreakResponse struct {
	EntryID  int64           `json:"entry_id"`
	Field    string          `json:"field"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
}

// ChainReportResponse is the result of verifying one subledger.
type ChainReportResponse struct {
	InstrumentKind  string              `json:"instrument_kind"`
	InstrumentID    string              `json:"instrument_id"`
	Rows            int                 `json:"rows"`
	CachedBalance   decimal.Decimal     `json:"cached_balance"`
	LastBalance     decimal.Decimal     `json:"last_balance"`
	CacheConsistent bool                `json:"cache_consistent"`
	Valid           bool                `json:"valid"`
	Break           *ChainBreakResponse `json:"break,omitempty"`
}

// ChainReportFromUseCase converts a chain report to response.
func ChainReportFromUseCase(r *usecase.ChainReport) *ChainReportResponse {
	resp := &ChainReportResponse{
		InstrumentKind:  string(r.Instrument.Kind),
		InstrumentID:    r.Instrument.ID,
		Rows:            r.Rows,
		CachedBalance:   r.CachedBalance,
		LastBalance:     r.LastBalance,
		CacheConsistent: r.CacheConsistent,
		Valid:           r.Valid(),
	}
	if r.Break != nil {
		resp.Break = &ChainBreakResponse{
			EntryID:  r.Break.EntryID,
			Field:    r.Break.Field,
			Expected: r.Break.Expected,
			Actual:   r.Break.Actual,
		}
	}
	return resp
}

// CashFlowItemResponse is one row of the cash-flow view.
type CashFlowItemResponse struct {
	ID              string          `json:"id"`
	Date            Date            `json:"date"`
	TransactionType string          `json:"transaction_type"`
	SourceType      string          `json:"source_type"`
	InstrumentKind  string          `json:"instrument_kind,omitempty"`
	InstrumentID    string          `json:"instrument_id,omitempty"`
	InstrumentName  string          `json:"instrument_name,omitempty"`
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	RunningBalance  decimal.Decimal `json:"running_balance"`
	Linked          bool            `json:"linked"`
}

// CashFlowSummaryResponse totals a cash-flow view.
type CashFlowSummaryResponse struct {
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	Net         decimal.Decimal `json:"net"`
}

// CashFlowResponse is the merged cash-flow view with its summary.
type CashFlowResponse struct {
	Items   []*CashFlowItemResponse `json:"items"`
	Summary CashFlowSummaryResponse `json:"summary"`
}

// CashFlowFromDomain converts a cash-flow report to response.
func CashFlowFromDomain(r *domain.CashFlowReport) *CashFlowResponse {
	items := make([]*CashFlowItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = &CashFlowItemResponse{
			ID:              it.ID,
			Date:            Date{it.Date},
			TransactionType: string(it.FlowType),
			SourceType:      string(it.SourceType),
			InstrumentKind:  string(it.Instrument.Kind),
			InstrumentID:    it.Instrument.ID,
			InstrumentName:  it.InstrumentName,
			Reference:       it.Reference,
			Description:     it.Description,
			Amount:          it.Amount,
			RunningBalance:  it.RunningBalance,
			Linked:          it.Linked,
		}
	}
	return &CashFlowResponse{
		Items: items,
		Summary: CashFlowSummaryResponse{
			TotalCredit: r.Summary.TotalCredit,
			TotalDebit:  r.Summary.TotalDebit,
			Net:         r.Summary.Net,
		},
	}
}

// ImbalanceResponse is a transfer reference that does not balance.
type ImbalanceResponse struct {
	ReferenceNo string          `json:"reference_no"`
	Rows        int             `json:"rows"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// DiscrepancyResponse is an account whose cached balance drifted.
type DiscrepancyResponse struct {
	AccountID         string          `json:"account_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
}

// ConsistencyResponse is the outcome of every reconciliation check.
type ConsistencyResponse struct {
	Healthy            bool                   `json:"healthy"`
	LedgerConsistent   bool                   `json:"ledger_consistent"`
	TotalAccounts      int                    `json:"total_accounts"`
	ReconciledAccounts int                    `json:"reconciled_accounts"`
	Discrepancies      []*DiscrepancyResponse `json:"discrepancies"`
	Imbalances         []*ImbalanceResponse   `json:"imbalances"`
	BrokenInstruments  []*ChainReportResponse `json:"broken_instruments"`
	CheckedAt          time.Time              `json:"checked_at"`
}

// ConsistencyFromUseCase converts a reconciliation report to response.
func ConsistencyFromUseCase(r *usecase.ReconciliationReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Healthy:            r.Healthy(),
		LedgerConsistent:   r.LedgerConsistent,
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      make([]*DiscrepancyResponse, len(r.Discrepancies)),
		Imbalances:         make([]*ImbalanceResponse, len(r.Imbalances)),
		BrokenInstruments:  make([]*ChainReportResponse, len(r.BrokenInstruments)),
		CheckedAt:          r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = &DiscrepancyResponse{
			AccountID:         d.AccountID,
			RecordedBalance:   d.RecordedBalance,
			CalculatedBalance: d.CalculatedBalance,
			Difference:        d.Difference,
		}
	}
	for i, im := range r.Imbalances {
		resp.Imbalances[i] = &ImbalanceResponse{
			ReferenceNo: im.ReferenceNo,
			Rows:        im.Rows,
			Debit:       im.Debit,
			Credit:      im.Credit,
		}
	}
	for i, c := range r.BrokenInstruments {
		resp.BrokenInstruments[i] = ChainReportFromUseCase(c)
	}
	return resp
}

// ErrorResponse represents an error in API responses. Outcome tells the
// caller whether anything was written.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Outcome string `json:"outcome,omitempty"`
}
