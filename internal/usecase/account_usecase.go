package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/factoryledger/internal/domain"
)

const chartCacheKey = "chart:accounts"

// AccountUseCase handles chart-of-accounts business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txRepo      TransactionRepository
	outboxRepo  OutboxRepository
	cache       Cache
	idGen       IDGenerator
	cacheTTL    time.Duration
}

// NewAccountUseCase creates a new AccountUseCase. cache may be nil.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	cacheTTL time.Duration,
) *AccountUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultHierarchyCacheTTL
	}
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		idGen:       idGen,
		cacheTTL:    cacheTTL,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	ParentID       *string
	Name           string
	Type           domain.AccountType
	BalanceType    domain.BalanceType
	OpeningBalance decimal.Decimal
	Level          int
}

// UpdateAccountInput represents input for updating an account. Nil fields
// are left unchanged.
type UpdateAccountInput struct {
	Name           *string
	Type           *domain.AccountType
	BalanceType    *domain.BalanceType
	OpeningBalance *decimal.Decimal
	ID             string
	Level          int
}

// CreateAccount creates an account and its opening-balance seed row.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		ParentID:       input.ParentID,
		Name:           strings.TrimSpace(input.Name),
		Type:           input.Type,
		BalanceType:    input.BalanceType,
		OpeningBalance: input.OpeningBalance,
		CurrentBalance: input.OpeningBalance,
		Level:          input.Level,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if account.Type == "" {
		account.Type = domain.AccountTypeAccount
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var parent *domain.Account
	if input.ParentID != nil {
		parent, err = uc.accountRepo.GetByIDForUpdate(ctx, tx, *input.ParentID)
		if err != nil {
			if isNotFound(err) {
				return nil, domain.ErrInvalidParent
			}
			return nil, err
		}
	}

	if err := account.Validate(parent); err != nil {
		return nil, err
	}

	exists, err := uc.accountRepo.NameExists(ctx, tx, account.ParentID, account.Name, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateName
	}

	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	seed := domain.NewOpeningTransaction(uc.idGen.Generate(), account, now)
	if err := uc.txRepo.Create(ctx, tx, seed); err != nil {
		return nil, err
	}

	if err := uc.emit(ctx, tx, domain.EventTypeAccountCreated, account, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidate(ctx)
	return account, nil
}

// UpdateAccount updates the mutable fields of an account. A changed opening
// balance shifts the cached current balance by the same delta.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Level != 0 && account.Level != input.Level {
		return nil, domain.ErrAccountNotFound
	}

	if input.Name != nil {
		account.Name = strings.TrimSpace(*input.Name)
	}
	if input.Type != nil {
		account.Type = *input.Type
	}
	if input.BalanceType != nil {
		account.BalanceType = *input.BalanceType
	}
	if input.OpeningBalance != nil {
		delta := input.OpeningBalance.Sub(account.OpeningBalance)
		account.OpeningBalance = *input.OpeningBalance
		account.CurrentBalance = account.CurrentBalance.Add(delta)
	}

	var parent *domain.Account
	if account.ParentID != nil {
		parent, err = uc.accountRepo.GetByID(ctx, *account.ParentID)
		if err != nil {
			return nil, err
		}
	}
	if err := account.Validate(parent); err != nil {
		return nil, err
	}

	if input.Name != nil {
		exists, err := uc.accountRepo.NameExists(ctx, tx, account.ParentID, account.Name, account.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateName
		}
	}

	now := time.Now().UTC()
	account.UpdatedAt = now
	if err := uc.accountRepo.Update(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := uc.emit(ctx, tx, domain.EventTypeAccountUpdated, account, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidate(ctx)
	return account, nil
}

// DeleteAccount removes an account that has no child accounts and no
// postings besides its opening seed.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string, level int) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if level != 0 && account.Level != level {
		return domain.ErrAccountNotFound
	}

	children, err := uc.accountRepo.CountChildren(ctx, tx, id)
	if err != nil {
		return err
	}
	postings, err := uc.txRepo.CountPostings(ctx, tx, id)
	if err != nil {
		return err
	}
	if children > 0 || postings > 0 {
		return domain.ErrAccountInUse
	}

	if err := uc.txRepo.DeleteOpening(ctx, tx, id); err != nil {
		return err
	}
	if err := uc.accountRepo.Delete(ctx, tx, id); err != nil {
		return err
	}

	if err := uc.emit(ctx, tx, domain.EventTypeAccountDeleted, account, time.Now().UTC()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.invalidate(ctx)
	return nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ResolveUnifiedID returns the account addressed by id at whatever level
// it lives. The id is the unified id.
func (uc *AccountUseCase) ResolveUnifiedID(ctx context.Context, id string) (*domain.Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrAccountNotFound
	}
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists the accounts at one level, name ordered.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, level int) ([]*domain.Account, error) {
	if level < 0 || level > domain.MaxChartLevel {
		return nil, domain.ErrInvalidLevel
	}

	accounts, err := uc.allAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if level == 0 {
		return accounts, nil
	}

	out := make([]*domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Level == level {
			out = append(out, a)
		}
	}
	return out, nil
}

// GetHierarchy returns the nested chart, optionally keeping only level-3
// accounts of one type.
func (uc *AccountUseCase) GetHierarchy(ctx context.Context, typeFilter domain.AccountType) ([]*domain.AccountNode, error) {
	if typeFilter != "" && !typeFilter.Valid() {
		return nil, domain.ErrInvalidAccountType
	}

	accounts, err := uc.allAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildHierarchy(accounts, typeFilter), nil
}

// allAccounts loads the full chart, through the cache when one is set.
func (uc *AccountUseCase) allAccounts(ctx context.Context) ([]*domain.Account, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, chartCacheKey); err == nil && len(data) > 0 {
			var accounts []*domain.Account
			if err := json.Unmarshal(data, &accounts); err == nil {
				return accounts, nil
			}
		}
	}

	accounts, err := uc.accountRepo.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(accounts); err == nil {
			if err := uc.cache.Set(ctx, chartCacheKey, data, uc.cacheTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache chart of accounts")
			}
		}
	}
	return accounts, nil
}

func (uc *AccountUseCase) invalidate(ctx context.Context) {
	invalidateChart(ctx, uc.cache)
}

// invalidateChart drops the cached chart. The cache holds current balances,
// so every committed posting calls it as well as chart edits.
func invalidateChart(ctx context.Context, cache Cache) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, chartCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate chart cache")
	}
}

func (uc *AccountUseCase) emit(ctx context.Context, tx Transaction, eventType string, account *domain.Account, at time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}
	payload := map[string]any{
		"account_id":      account.ID,
		"level":           account.Level,
		"name":            account.Name,
		"account_type":    string(account.Type),
		"balance_type":    string(account.BalanceType),
		"opening_balance": account.OpeningBalance.String(),
	}
	if account.ParentID != nil {
		payload["parent_id"] = *account.ParentID
	}
	event := domain.NewOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeAccount, account.ID, eventType, payload, at)
	return uc.outboxRepo.Create(ctx, tx, event)
}
