package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies what an account represents in the chart.
type AccountType string

const (
	AccountTypeAccount  AccountType = "ACCOUNT"
	AccountTypeSupplier AccountType = "SUPPLIER"
	AccountTypeCustomer AccountType = "CUSTOMER"
	AccountTypeVendor   AccountType = "VENDOR"
	AccountTypeExpense  AccountType = "EXPENSE"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAccount, AccountTypeSupplier, AccountTypeCustomer, AccountTypeVendor, AccountTypeExpense:
		return true
	}
	return false
}

// BalanceType is the normal side of an account.
type BalanceType string

const (
	BalanceTypeDebit  BalanceType = "DEBIT"
	BalanceTypeCredit BalanceType = "CREDIT"
)

// Valid reports whether t is DEBIT or CREDIT.
func (t BalanceType) Valid() bool {
	return t == BalanceTypeDebit || t == BalanceTypeCredit
}

// Chart levels.
const (
	LevelRoot     = 1
	LevelGroup    = 2
	LevelLeaf     = 3
	MaxChartLevel = LevelLeaf
)

// Account is one node of the three-level chart of accounts. Its ID is the
// unified identifier: the same value addresses the account at any level.
type Account struct {
	ID             string
	ParentID       *string
	Name           string
	Type           AccountType
	BalanceType    BalanceType
	OpeningBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	Level          int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the account's own fields and its placement under parent.
// parent must be nil for level-1 accounts.
func (a *Account) Validate(parent *Account) error {
	if a.Level < LevelRoot || a.Level > MaxChartLevel {
		return ErrInvalidLevel
	}
	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}
	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}
	if !a.BalanceType.Valid() {
		return ErrInvalidBalanceType
	}

	if a.Level == LevelRoot {
		if parent != nil || a.ParentID != nil {
			return ErrInvalidParent
		}
		return nil
	}

	if parent == nil || parent.Level != a.Level-1 {
		return ErrInvalidParent
	}
	return nil
}

// ApplyPosting returns the cached balance after a posting of entryType.
func (a *Account) ApplyPosting(entryType EntryType, amount decimal.Decimal) decimal.Decimal {
	return a.CurrentBalance.Add(entryType.Signed(amount))
}

// AccountNode is an account with its children, used to render the chart.
type AccountNode struct {
	Account  *Account
	Children []*AccountNode
}

// BuildHierarchy groups accounts into level1 -> level2 -> level3 trees,
// ordered by name at every level. When typeFilter is set only level-3
// accounts of that type are kept, together with the ancestors leading to them.
func BuildHierarchy(accounts []*Account, typeFilter AccountType) []*AccountNode {
	nodes := make(map[string]*AccountNode, len(accounts))
	for _, a := range accounts {
		nodes[a.ID] = &AccountNode{Account: a}
	}

	var roots []*AccountNode
	for _, a := range accounts {
		node := nodes[a.ID]
		if a.ParentID == nil {
			if a.Level == LevelRoot {
				roots = append(roots, node)
			}
			continue
		}
		if parent, ok := nodes[*a.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	sortNodes(roots)
	if typeFilter == "" {
		return roots
	}

	filtered := roots[:0:0]
	for _, root := range roots {
		if pruned := pruneByType(root, typeFilter); pruned != nil {
			filtered = append(filtered, pruned)
		}
	}
	return filtered
}

func sortNodes(nodes []*AccountNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Account.Name < nodes[j].Account.Name
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

func pruneByType(node *AccountNode, t AccountType) *AccountNode {
	if node.Account.Level == LevelLeaf {
		if node.Account.Type == t {
			return node
		}
		return nil
	}

	kept := &AccountNode{Account: node.Account}
	for _, child := range node.Children {
		if c := pruneByType(child, t); c != nil {
			kept.Children = append(kept.Children, c)
		}
	}
	if len(kept.Children) == 0 {
		return nil
	}
	return kept
}

// Subtree returns node's account followed by every descendant account.
func (n *AccountNode) Subtree() []*Account {
	out := []*Account{n.Account}
	for _, c := range n.Children {
		out = append(out, c.Subtree()...)
	}
	return out
}
