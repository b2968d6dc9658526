package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
	"github.com/iho/factoryledger/internal/infrastructure/postgres/generated"
	"github.com/iho/factoryledger/internal/usecase"
)

// SubledgerRepository implements usecase.SubledgerRepository over the
// cash_transactions and bank_transactions tables.
type SubledgerRepository struct {
	queries *generated.Queries
}

// NewSubledgerRepository creates a new SubledgerRepository.
func NewSubledgerRepository(pool *pgxpool.Pool) *SubledgerRepository {
	return newSubledgerRepository(pool)
}

func newSubledgerRepository(db generated.DBTX) *SubledgerRepository {
	return &SubledgerRepository{queries: generated.New(db)}
}

// LockInstrument takes FOR UPDATE on the cash book or bank account row.
func (r *SubledgerRepository) LockInstrument(ctx context.Context, tx usecase.Transaction, instrument domain.Instrument) error {
	q := txQueries(tx)

	var err error
	switch instrument.Kind {
	case domain.InstrumentCash:
		_, err = q.LockCashBook(ctx, instrument.ID)
	case domain.InstrumentBank:
		_, err = q.LockBankAccount(ctx, instrument.ID)
	default:
		return domain.ErrInvalidInstrument
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return instrumentNotFound(instrument)
		}
		return persistenceError("lock instrument", err)
	}
	return nil
}

// Latest returns the newest row by (transaction_date, id), or nil.
func (r *SubledgerRepository) Latest(ctx context.Context, tx usecase.Transaction, instrument domain.Instrument) (*domain.SubledgerEntry, error) {
	q := txQueries(tx)

	var (
		entry *domain.SubledgerEntry
		err   error
	)
	switch instrument.Kind {
	case domain.InstrumentCash:
		var row generated.CashTransaction
		row, err = q.GetLatestCashTransaction(ctx, instrument.ID)
		if err == nil {
			entry = cashRowToEntry(row)
		}
	case domain.InstrumentBank:
		var row generated.BankTransaction
		row, err = q.GetLatestBankTransaction(ctx, instrument.ID)
		if err == nil {
			entry = bankRowToEntry(row)
		}
	default:
		return nil, domain.ErrInvalidInstrument
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get latest subledger row", err)
	}
	return entry, nil
}

// Append inserts entry and sets its identity id.
func (r *SubledgerRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.SubledgerEntry) error {
	q := txQueries(tx)

	var (
		id  int64
		err error
	)
	switch entry.Instrument.Kind {
	case domain.InstrumentCash:
		id, err = q.CreateCashTransaction(ctx, generated.CreateCashTransactionParams{
			CashBookID:      entry.Instrument.ID,
			Type:            string(entry.Type),
			Origin:          string(entry.Origin),
			Reference:       entry.Reference,
			Remarks:         entry.Remarks,
			TransferGroupID: ptrToText(entry.TransferGroupID),
			Amount:          decimalToNumeric(entry.Amount),
			Balance:         decimalToNumeric(entry.Balance),
			BalanceAfter:    decimalToNumeric(entry.BalanceAfter),
			TransactionDate: timeToPgTimestamptz(entry.TransactionDate),
			CreatedAt:       timeToPgTimestamptz(entry.CreatedAt),
		})
	case domain.InstrumentBank:
		id, err = q.CreateBankTransaction(ctx, generated.CreateBankTransactionParams{
			BankAccountID:   entry.Instrument.ID,
			Type:            string(entry.Type),
			Origin:          string(entry.Origin),
			Reference:       entry.Reference,
			Remarks:         entry.Remarks,
			TransferGroupID: ptrToText(entry.TransferGroupID),
			Amount:          decimalToNumeric(entry.Amount),
			Balance:         decimalToNumeric(entry.Balance),
			BalanceAfter:    decimalToNumeric(entry.BalanceAfter),
			TransactionDate: timeToPgTimestamptz(entry.TransactionDate),
			CreatedAt:       timeToPgTimestamptz(entry.CreatedAt),
		})
	default:
		return domain.ErrInvalidInstrument
	}

	if err != nil {
		return mapWriteError("append subledger row", err)
	}
	entry.ID = id
	return nil
}

func (r *SubledgerRepository) UpdateInstrumentBalance(ctx context.Context, tx usecase.Transaction, instrument domain.Instrument, balance decimal.Decimal, updatedAt time.Time) error {
	q := txQueries(tx)

	var err error
	switch instrument.Kind {
	case domain.InstrumentCash:
		err = q.UpdateCashBookBalance(ctx, generated.UpdateCashBookBalanceParams{
			ID:             instrument.ID,
			CurrentBalance: decimalToNumeric(balance),
			UpdatedAt:      timeToPgTimestamptz(updatedAt),
		})
	case domain.InstrumentBank:
		err = q.UpdateBankAccountBalance(ctx, generated.UpdateBankAccountBalanceParams{
			ID:             instrument.ID,
			CurrentBalance: decimalToNumeric(balance),
			UpdatedAt:      timeToPgTimestamptz(updatedAt),
		})
	default:
		return domain.ErrInvalidInstrument
	}

	if err != nil {
		return persistenceError("update instrument balance", err)
	}
	return nil
}

// List returns an instrument's rows ordered by (transaction_date, id).
func (r *SubledgerRepository) List(ctx context.Context, instrument domain.Instrument, from, to *time.Time) ([]*domain.SubledgerEntry, error) {
	var entries []*domain.SubledgerEntry

	switch instrument.Kind {
	case domain.InstrumentCash:
		rows, err := r.queries.ListCashTransactions(ctx, generated.ListCashTransactionsParams{
			CashBookID: instrument.ID,
			FromDate:   boundToPgTimestamptz(from),
			ToDate:     boundToPgTimestamptz(to),
		})
		if err != nil {
			return nil, persistenceError("list cash transactions", err)
		}
		entries = make([]*domain.SubledgerEntry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, cashRowToEntry(row))
		}
	case domain.InstrumentBank:
		rows, err := r.queries.ListBankTransactions(ctx, generated.ListBankTransactionsParams{
			BankAccountID: instrument.ID,
			FromDate:      boundToPgTimestamptz(from),
			ToDate:        boundToPgTimestamptz(to),
		})
		if err != nil {
			return nil, persistenceError("list bank transactions", err)
		}
		entries = make([]*domain.SubledgerEntry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, bankRowToEntry(row))
		}
	default:
		return nil, domain.ErrInvalidInstrument
	}

	return entries, nil
}

// ListByKind returns the rows of every instrument of kind, named.
func (r *SubledgerRepository) ListByKind(ctx context.Context, kind domain.InstrumentKind, from, to *time.Time) ([]*domain.SubledgerEntry, error) {
	var entries []*domain.SubledgerEntry

	switch kind {
	case domain.InstrumentCash:
		rows, err := r.queries.ListAllCashTransactions(ctx, generated.ListAllCashTransactionsParams{
			FromDate: boundToPgTimestamptz(from),
			ToDate:   boundToPgTimestamptz(to),
		})
		if err != nil {
			return nil, persistenceError("list cash transactions", err)
		}
		entries = make([]*domain.SubledgerEntry, 0, len(rows))
		for _, row := range rows {
			e := cashRowToEntry(row.CashTransaction)
			e.InstrumentName = row.InstrumentName
			entries = append(entries, e)
		}
	case domain.InstrumentBank:
		rows, err := r.queries.ListAllBankTransactions(ctx, generated.ListAllBankTransactionsParams{
			FromDate: boundToPgTimestamptz(from),
			ToDate:   boundToPgTimestamptz(to),
		})
		if err != nil {
			return nil, persistenceError("list bank transactions", err)
		}
		entries = make([]*domain.SubledgerEntry, 0, len(rows))
		for _, row := range rows {
			e := bankRowToEntry(row.BankTransaction)
			e.InstrumentName = row.InstrumentName
			entries = append(entries, e)
		}
	default:
		return nil, domain.ErrInvalidInstrument
	}

	return entries, nil
}

// CurrentBalance returns the cached balance of the instrument row.
func (r *SubledgerRepository) CurrentBalance(ctx context.Context, instrument domain.Instrument) (decimal.Decimal, error) {
	var (
		balance decimal.Decimal
		err     error
	)
	switch instrument.Kind {
	case domain.InstrumentCash:
		var row generated.CashBook
		row, err = r.queries.GetCashBook(ctx, instrument.ID)
		balance = numericToDecimal(row.CurrentBalance)
	case domain.InstrumentBank:
		var row generated.BankAccount
		row, err = r.queries.GetBankAccountByID(ctx, instrument.ID)
		balance = numericToDecimal(row.CurrentBalance)
	default:
		return decimal.Zero, domain.ErrInvalidInstrument
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, instrumentNotFound(instrument)
		}
		return decimal.Zero, persistenceError("get instrument balance", err)
	}
	return balance, nil
}

func (r *SubledgerRepository) ListCashBooks(ctx context.Context) ([]*domain.CashBook, error) {
	rows, err := r.queries.ListCashBooks(ctx)
	if err != nil {
		return nil, persistenceError("list cash books", err)
	}

	books := make([]*domain.CashBook, 0, len(rows))
	for _, row := range rows {
		books = append(books, &domain.CashBook{
			ID:             row.ID,
			Name:           row.Name,
			CurrentBalance: numericToDecimal(row.CurrentBalance),
			UpdatedAt:      row.UpdatedAt.Time,
		})
	}
	return books, nil
}

func instrumentNotFound(instrument domain.Instrument) error {
	if instrument.Kind == domain.InstrumentBank {
		return domain.ErrBankAccountNotFound
	}
	return domain.ErrCashBookNotFound
}

func cashRowToEntry(row generated.CashTransaction) *domain.SubledgerEntry {
	return &domain.SubledgerEntry{
		ID:              row.ID,
		Instrument:      domain.CashInstrument(row.CashBookID),
		Type:            domain.EntryType(row.Type),
		Origin:          domain.Origin(row.Origin),
		Reference:       row.Reference,
		Remarks:         row.Remarks,
		TransferGroupID: textToPtr(row.TransferGroupID),
		Amount:          numericToDecimal(row.Amount),
		Balance:         numericToDecimal(row.Balance),
		BalanceAfter:    numericToDecimal(row.BalanceAfter),
		TransactionDate: row.TransactionDate.Time,
		CreatedAt:       row.CreatedAt.Time,
	}
}

func bankRowToEntry(row generated.BankTransaction) *domain.SubledgerEntry {
	return &domain.SubledgerEntry{
		ID:              row.ID,
		Instrument:      domain.BankInstrument(row.BankAccountID),
		Type:            domain.EntryType(row.Type),
		Origin:          domain.Origin(row.Origin),
		Reference:       row.Reference,
		Remarks:         row.Remarks,
		TransferGroupID: textToPtr(row.TransferGroupID),
		Amount:          numericToDecimal(row.Amount),
		Balance:         numericToDecimal(row.Balance),
		BalanceAfter:    numericToDecimal(row.BalanceAfter),
		TransactionDate: row.TransactionDate.Time,
		CreatedAt:       row.CreatedAt.Time,
	}
}
