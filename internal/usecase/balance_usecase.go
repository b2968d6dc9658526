package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/factoryledger/internal/domain"
)

// BalanceUseCase derives opening, movement and closing balances from
// committed ledger rows. It never writes and never takes row locks.
type BalanceUseCase struct {
	accountRepo AccountRepository
	txRepo      TransactionRepository
	metrics     Metrics
	workers     int
}

// NewBalanceUseCase creates a new BalanceUseCase. workers bounds the number
// of accounts computed concurrently.
func NewBalanceUseCase(accountRepo AccountRepository, txRepo TransactionRepository, metrics Metrics, workers int) *BalanceUseCase {
	if workers <= 0 {
		workers = DefaultBalanceWorkers
	}
	return &BalanceUseCase{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		metrics:     metricsOrNoop(metrics),
		workers:     workers,
	}
}

// BalanceQuery selects an account (and its subtree) and a window. Level 0
// accepts the account at any level.
type BalanceQuery struct {
	AccountID string
	Level     int
	StartDate time.Time
	EndDate   time.Time
}

// LedgerView is the balance of a window plus the rows inside it.
type LedgerView struct {
	Balance      *domain.AccountBalance
	Transactions []*domain.Transaction
}

// Statement is a window's rows with a running balance after each.
type Statement struct {
	Balance *domain.AccountBalance
	Lines   []domain.StatementLine
}

// Opening returns the balance of the account's subtree before start.
func (uc *BalanceUseCase) Opening(ctx context.Context, accountID string, level int, start time.Time) (decimal.Decimal, error) {
	accounts, _, err := uc.subtree(ctx, accountID, level)
	if err != nil {
		return decimal.Zero, err
	}
	return uc.sumOpenings(ctx, accounts, domain.StartOfDay(start))
}

// Closing returns the balance of the account's subtree at the end of the
// day end, which is the opening balance of the following day.
func (uc *BalanceUseCase) Closing(ctx context.Context, accountID string, level int, end time.Time) (decimal.Decimal, error) {
	return uc.Opening(ctx, accountID, level, domain.NextDay(end))
}

// Movement returns the debit and credit volume of the account's subtree for
// start <= date < end+1day.
func (uc *BalanceUseCase) Movement(ctx context.Context, accountID string, level int, start, end time.Time) (domain.Movement, error) {
	if err := domain.ValidateDateRange(start, end); err != nil {
		return domain.Movement{}, err
	}
	accounts, _, err := uc.subtree(ctx, accountID, level)
	if err != nil {
		return domain.Movement{}, err
	}

	movements := make([]domain.Movement, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, a := range accounts {
		g.Go(func() error {
			m, err := uc.txRepo.MovementBetween(gctx, a.ID, domain.StartOfDay(start), domain.NextDay(end))
			if err != nil {
				return err
			}
			movements[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Movement{}, err
	}

	total := domain.Movement{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, m := range movements {
		total = total.Add(m)
	}
	return total, nil
}

// AccountBalance returns opening, movement and closing for the window,
// summed over the account's subtree.
func (uc *BalanceUseCase) AccountBalance(ctx context.Context, q BalanceQuery) (*domain.AccountBalance, error) {
	started := time.Now()
	if err := domain.ValidateDateRange(q.StartDate, q.EndDate); err != nil {
		return nil, err
	}

	accounts, root, err := uc.subtree(ctx, q.AccountID, q.Level)
	if err != nil {
		return nil, err
	}

	start := domain.StartOfDay(q.StartDate)
	end := domain.StartOfDay(q.EndDate)

	parts := make([]*domain.AccountBalance, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, a := range accounts {
		g.Go(func() error {
			b, err := uc.computeOne(gctx, a, start, end)
			if err != nil {
				return err
			}
			parts[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &domain.AccountBalance{
		AccountID:   root.ID,
		Name:        root.Name,
		BalanceType: root.BalanceType,
		Level:       root.Level,
		StartDate:   start,
		EndDate:     end,
		Opening:     decimal.Zero,
		Movement:    domain.Movement{Debit: decimal.Zero, Credit: decimal.Zero},
		Closing:     decimal.Zero,
	}
	for _, p := range parts {
		total.Add(p)
	}

	uc.metrics.BalanceComputed(root.Level, time.Since(started))
	return total, nil
}

// Ledger returns the window's balance and the subtree's rows inside it.
func (uc *BalanceUseCase) Ledger(ctx context.Context, q BalanceQuery) (*LedgerView, error) {
	balance, err := uc.AccountBalance(ctx, q)
	if err != nil {
		return nil, err
	}

	accounts, _, err := uc.subtree(ctx, q.AccountID, q.Level)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}

	rows, err := uc.txRepo.ListBetween(ctx, ids, balance.StartDate, domain.NextDay(balance.EndDate))
	if err != nil {
		return nil, err
	}

	return &LedgerView{Balance: balance, Transactions: rows}, nil
}

// Statement returns the window's rows with a running balance that starts at
// the opening balance and ends at the closing balance.
func (uc *BalanceUseCase) Statement(ctx context.Context, q BalanceQuery) (*Statement, error) {
	view, err := uc.Ledger(ctx, q)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.Transaction, 0, len(view.Transactions))
	for _, r := range view.Transactions {
		if !r.IsOpening {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TransactionDate.Before(rows[j].TransactionDate)
	})

	lines, _ := domain.BuildStatement(view.Balance.Opening, rows)
	return &Statement{Balance: view.Balance, Lines: lines}, nil
}

// computeOne computes one account's own balance for [start, end].
func (uc *BalanceUseCase) computeOne(ctx context.Context, a *domain.Account, start, end time.Time) (*domain.AccountBalance, error) {
	before, err := uc.txRepo.SumBefore(ctx, a.ID, start)
	if err != nil {
		return nil, err
	}
	movement, err := uc.txRepo.MovementBetween(ctx, a.ID, start, domain.NextDay(end))
	if err != nil {
		return nil, err
	}
	through, err := uc.txRepo.SumBefore(ctx, a.ID, domain.NextDay(end))
	if err != nil {
		return nil, err
	}

	return &domain.AccountBalance{
		AccountID:   a.ID,
		Name:        a.Name,
		BalanceType: a.BalanceType,
		Level:       a.Level,
		StartDate:   start,
		EndDate:     end,
		Opening:     a.OpeningBalance.Add(before),
		Movement:    movement,
		Closing:     a.OpeningBalance.Add(through),
	}, nil
}

func (uc *BalanceUseCase) sumOpenings(ctx context.Context, accounts []*domain.Account, before time.Time) (decimal.Decimal, error) {
	sums := make([]decimal.Decimal, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, a := range accounts {
		g.Go(func() error {
			s, err := uc.txRepo.SumBefore(gctx, a.ID, before)
			if err != nil {
				return err
			}
			sums[i] = a.OpeningBalance.Add(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, s := range sums {
		total = total.Add(s)
	}
	return total, nil
}

// subtree resolves accountID at level and returns it with every descendant.
func (uc *BalanceUseCase) subtree(ctx context.Context, accountID string, level int) ([]*domain.Account, *domain.Account, error) {
	root, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if level != 0 && root.Level != level {
		return nil, nil, domain.ErrAccountNotFound
	}
	if root.Level == domain.LevelLeaf {
		return []*domain.Account{root}, root, nil
	}

	all, err := uc.accountRepo.List(ctx, 0)
	if err != nil {
		return nil, nil, err
	}

	children := make(map[string][]*domain.Account)
	for _, a := range all {
		if a.ParentID != nil {
			children[*a.ParentID] = append(children[*a.ParentID], a)
		}
	}

	out := []*domain.Account{root}
	queue := []string{root.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range children[id] {
			out = append(out, c)
			queue = append(queue, c.ID)
		}
	}
	return out, root, nil
}
