package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
)

// PaymentUseCase turns payments, expenses and long vouchers into ledger and
// subledger postings that commit or roll back together.
type PaymentUseCase struct {
	txManager   TransactionManager
	ledger      *ledgerWriter
	subledger   *subledgerWriter
	voucherRepo VoucherRepository
	txRepo      TransactionRepository
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	cache       Cache
	idGen       IDGenerator
	metrics     Metrics
	suffix      func() int
}

// NewPaymentUseCase creates a new PaymentUseCase. cache may be nil.
func NewPaymentUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	subledgerRepo SubledgerRepository,
	voucherRepo VoucherRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	metrics Metrics,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager: txManager,
		ledger: &ledgerWriter{
			accountRepo: accountRepo,
			txRepo:      txRepo,
			outboxRepo:  outboxRepo,
			idGen:       idGen,
		},
		subledger:   &subledgerWriter{repo: subledgerRepo, outboxRepo: outboxRepo, idGen: idGen},
		voucherRepo: voucherRepo,
		txRepo:      txRepo,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		idGen:       idGen,
		metrics:     metricsOrNoop(metrics),
		suffix:      func() int { return rand.IntN(1000) },
	}
}

// RecordPaymentInput represents a payment received from or issued to a party.
type RecordPaymentInput struct {
	Date          *time.Time
	BankAccountID *string
	Type          domain.PaymentType
	AccountID     string
	Mode          domain.PaymentMode
	Description   string
	Amount        decimal.Decimal
}

// PaymentResult is everything a payment wrote.
type PaymentResult struct {
	Payment      *domain.Payment
	Transactions []*domain.Transaction
	Subledger    *domain.SubledgerEntry
}

// RecordExpenseInput represents an expense voucher.
type RecordExpenseInput struct {
	Date          *time.Time
	BankAccountID *string
	AccountID     string
	Mode          domain.PaymentMode
	Category      string
	Description   string
	Amount        decimal.Decimal
}

// ExpenseResult is everything an expense wrote.
type ExpenseResult struct {
	Expense      *domain.Expense
	Transactions []*domain.Transaction
	Subledger    *domain.SubledgerEntry
}

// LongVoucherInput represents a direct account-to-account transfer.
type LongVoucherInput struct {
	Date          *time.Time
	FromAccountID string
	ToAccountID   string
	Description   string
	Amount        decimal.Decimal
}

// RecordPayment posts a payment to the party account and to the cash or
// bank subledger it settles into, under a new RV or PV voucher.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidPaymentType
	}
	if input.Mode == domain.PaymentModeDirect {
		return nil, fmt.Errorf("%w: payments settle into cash or bank", domain.ErrInvalidPaymentMode)
	}
	instrument, _, err := input.Mode.Instrument(deref(input.BankAccountID))
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := dateOrNow(input.Date, now)
	entryType := input.Type.EntryType()

	result := &PaymentResult{}
	err = uc.inTx(ctx, func(ctx context.Context, tx Transaction) error {
		voucherNo, err := uc.nextVoucherNo(ctx, tx, input.Type.VoucherPrefix(), date)
		if err != nil {
			return err
		}

		rows, err := uc.ledger.post(ctx, tx, &ledgerPosting{
			Legs:        []ledgerLeg{{AccountID: input.AccountID, EntryType: entryType}},
			Amount:      input.Amount,
			ReferenceNo: voucherNo,
			Description: input.Description,
			Kind:        domain.PostingKindPayment,
			Date:        date,
		})
		if err != nil {
			return err
		}

		entry := &domain.SubledgerEntry{
			Instrument:      instrument,
			Type:            entryType,
			Origin:          domain.OriginPayment,
			Reference:       voucherNo,
			Remarks:         input.Description,
			Amount:          input.Amount,
			TransactionDate: date,
		}
		if err := uc.subledger.append(ctx, tx, entry); err != nil {
			return err
		}

		payment := &domain.Payment{
			ID:            uc.idGen.Generate(),
			VoucherNo:     voucherNo,
			Type:          input.Type,
			AccountID:     input.AccountID,
			Mode:          input.Mode,
			BankAccountID: bankIDFor(instrument),
			Description:   input.Description,
			Amount:        input.Amount,
			PaymentDate:   date,
			CreatedAt:     now,
		}
		if err := uc.voucherRepo.CreatePayment(ctx, tx, payment); err != nil {
			return err
		}
		if err := uc.emit(ctx, tx, domain.AggregateTypePayment, payment.ID, domain.EventTypePaymentRecorded, map[string]any{
			"voucher_no":   voucherNo,
			"payment_type": string(input.Type),
			"account_id":   input.AccountID,
			"mode":         string(input.Mode),
			"amount":       input.Amount.String(),
		}, now); err != nil {
			return err
		}

		result.Payment = payment
		result.Transactions = rows
		result.Subledger = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.PostingCommitted(domain.PostingKindPayment, len(result.Transactions))
	uc.metrics.SubledgerAppended(instrument.Kind)
	log.Debug().Str("voucher_no", result.Payment.VoucherNo).Msg("payment recorded")
	return result, nil
}

// RecordExpense debits an expense account under a new EV voucher and, unless
// paid DIRECT, debits the settling cash or bank subledger.
func (uc *PaymentUseCase) RecordExpense(ctx context.Context, input RecordExpenseInput) (*ExpenseResult, error) {
	instrument, settled, err := input.Mode.Instrument(deref(input.BankAccountID))
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := dateOrNow(input.Date, now)

	result := &ExpenseResult{}
	err = uc.inTx(ctx, func(ctx context.Context, tx Transaction) error {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
		if err != nil {
			if isNotFound(err) {
				return domain.ErrInvalidAccount
			}
			return err
		}
		if account.Type != domain.AccountTypeExpense {
			return fmt.Errorf("%w: %s is not an expense account", domain.ErrInvalidAccount, account.Name)
		}

		voucherNo, err := uc.nextVoucherNo(ctx, tx, domain.VoucherExpense, date)
		if err != nil {
			return err
		}

		rows, err := uc.ledger.post(ctx, tx, &ledgerPosting{
			Legs:        []ledgerLeg{{AccountID: input.AccountID, EntryType: domain.EntryTypeDebit}},
			Amount:      input.Amount,
			ReferenceNo: voucherNo,
			Description: input.Description,
			Kind:        domain.PostingKindExpense,
			Date:        date,
		})
		if err != nil {
			return err
		}

		var entry *domain.SubledgerEntry
		if settled {
			entry = &domain.SubledgerEntry{
				Instrument:      instrument,
				Type:            domain.EntryTypeDebit,
				Origin:          domain.OriginExpense,
				Reference:       voucherNo,
				Remarks:         input.Description,
				Amount:          input.Amount,
				TransactionDate: date,
			}
			if err := uc.subledger.append(ctx, tx, entry); err != nil {
				return err
			}
		}

		expense := &domain.Expense{
			ID:            uc.idGen.Generate(),
			VoucherNo:     voucherNo,
			AccountID:     input.AccountID,
			Mode:          input.Mode,
			BankAccountID: bankIDFor(instrument),
			Category:      strings.TrimSpace(input.Category),
			Description:   input.Description,
			Amount:        input.Amount,
			ExpenseDate:   date,
			CreatedAt:     now,
		}
		if err := uc.voucherRepo.CreateExpense(ctx, tx, expense); err != nil {
			return err
		}
		if err := uc.emit(ctx, tx, domain.AggregateTypeExpense, expense.ID, domain.EventTypeExpenseRecorded, map[string]any{
			"voucher_no": voucherNo,
			"account_id": input.AccountID,
			"mode":       string(input.Mode),
			"amount":     input.Amount.String(),
		}, now); err != nil {
			return err
		}

		result.Expense = expense
		result.Transactions = rows
		result.Subledger = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.PostingCommitted(domain.PostingKindExpense, len(result.Transactions))
	if settled {
		uc.metrics.SubledgerAppended(instrument.Kind)
	}
	return result, nil
}

// PostLongVoucher transfers an amount from one account to another under a
// new LV-YYMMDD-NNN reference.
func (uc *PaymentUseCase) PostLongVoucher(ctx context.Context, input LongVoucherInput) ([]*domain.Transaction, error) {
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	date := dateOrNow(input.Date, time.Now().UTC())

	var rows []*domain.Transaction
	err := uc.inTx(ctx, func(ctx context.Context, tx Transaction) error {
		ref, err := uc.longVoucherNo(ctx, tx, date)
		if err != nil {
			return err
		}
		rows, err = uc.ledger.post(ctx, tx, transferPosting(input.FromAccountID, input.ToAccountID, input.Amount,
			ref, input.Description, domain.PostingKindLongVoucher, date, nil))
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.PostingCommitted(domain.PostingKindLongVoucher, len(rows))
	return rows, nil
}

func (uc *PaymentUseCase) inTx(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		uc.metrics.PostingRejected(rejectionReason(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	invalidateChart(ctx, uc.cache)
	return nil
}

// nextVoucherNo numbers the next voucher of prefix for date's year. The
// sequence lock is held until tx ends.
func (uc *PaymentUseCase) nextVoucherNo(ctx context.Context, tx Transaction, prefix domain.VoucherPrefix, date time.Time) (string, error) {
	year := date.Year()
	head := domain.VoucherYearPrefix(prefix, year)

	if err := uc.voucherRepo.LockSequence(ctx, tx, head); err != nil {
		return "", err
	}
	last, err := uc.voucherRepo.LastVoucherNo(ctx, tx, head)
	if err != nil {
		return "", err
	}
	return domain.FormatVoucherNo(prefix, year, domain.NextVoucherSeq(prefix, year, last)), nil
}

func (uc *PaymentUseCase) longVoucherNo(ctx context.Context, tx Transaction, date time.Time) (string, error) {
	for range longVoucherAttempts {
		ref := domain.FormatLongVoucherNo(date, uc.suffix())
		exists, err := uc.txRepo.ReferenceExists(ctx, tx, ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}
	return "", fmt.Errorf("no free long voucher number for %s", date.Format("2006-01-02"))
}

func (uc *PaymentUseCase) emit(ctx context.Context, tx Transaction, aggregateType, aggregateID, eventType string, payload map[string]any, at time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}
	return uc.outboxRepo.Create(ctx, tx, domain.NewOutboxEvent(uc.idGen.Generate(), aggregateType, aggregateID, eventType, payload, at))
}

func bankIDFor(instrument domain.Instrument) *string {
	if instrument.Kind != domain.InstrumentBank {
		return nil
	}
	id := instrument.ID
	return &id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOrNow(t *time.Time, now time.Time) time.Time {
	if t == nil {
		return now
	}
	return t.UTC()
}
