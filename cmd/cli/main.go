package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/factoryledger/internal/adapter/http/dto"
	"github.com/iho/factoryledger/internal/infrastructure/config"
	"github.com/iho/factoryledger/internal/infrastructure/postgres"
)

// errCheckFailed makes the process exit non-zero after the report is printed.
var errCheckFailed = errors.New("consistency check failed")

type options struct {
	baseURL string
	timeout time.Duration
	asJSON  bool
}

// Overridable in tests.
var (
	runMigrations     = postgres.RunMigrations
	runMigrationsDown = postgres.RunMigrationsDown
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "factoryledger-cli",
		Short:         "Factory ledger CLI tool",
		Long:          `A command line interface for the factory ledger API and its database.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the factory ledger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(migrateCmd(), ledgerCmd(opts), reportsCmd(opts))
	return rootCmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})

	downCmd := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				steps = n
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := runMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	cmd.AddCommand(downCmd)

	return cmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency(cmd, opts)
		},
	})

	var (
		accountID string
		level     int
		startDate string
		endDate   string
	)
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show opening, movement and closing balance for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("accountId", accountID)
			q.Set("level", strconv.Itoa(level))
			setIfNotEmpty(q, "startDate", startDate)
			setIfNotEmpty(q, "endDate", endDate)

			var resp dto.LedgerResponse
			if err := getJSON(cmd.Context(), opts, "/api/v1/ledger", q, &resp); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Account:  %s (%s, level %d)\n", resp.Name, resp.AccountID, resp.Level)
			fmt.Fprintf(out, "Period:   %s .. %s\n", resp.StartDate.Format(dto.DateLayout), resp.EndDate.Format(dto.DateLayout))
			fmt.Fprintf(out, "Opening:  %s\n", resp.OpeningBalance.StringFixed(2))
			fmt.Fprintf(out, "Debit:    %s\n", resp.TotalDebit.StringFixed(2))
			fmt.Fprintf(out, "Credit:   %s\n", resp.TotalCredit.StringFixed(2))
			fmt.Fprintf(out, "Net:      %s %s\n", resp.Net.Abs().StringFixed(2), resp.NetLabel)
			fmt.Fprintf(out, "Closing:  %s\n", resp.ClosingBalance.StringFixed(2))
			return nil
		},
	}
	balanceCmd.Flags().StringVar(&accountID, "account", "", "Account id")
	balanceCmd.Flags().IntVar(&level, "level", 3, "Chart level of the account (1, 2 or 3)")
	balanceCmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	balanceCmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD)")
	_ = balanceCmd.MarkFlagRequired("account")
	cmd.AddCommand(balanceCmd)

	return cmd
}

func reportsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Reports",
	}

	var (
		startDate string
		endDate   string
		flowType  string
		source    string
		unified   bool
	)
	cashFlowCmd := &cobra.Command{
		Use:   "cash-flow",
		Short: "Print the merged cash and bank flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setIfNotEmpty(q, "startDate", startDate)
			setIfNotEmpty(q, "endDate", endDate)
			setIfNotEmpty(q, "transactionType", flowType)
			setIfNotEmpty(q, "sourceType", source)
			q.Set("unified", strconv.FormatBool(unified))

			var resp dto.CashFlowResponse
			if err := getJSON(cmd.Context(), opts, "/api/v1/reports/cash-flow", q, &resp); err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s  %-8s  %-9s  %-20s  %14s\n", "DATE", "TYPE", "SOURCE", "DESCRIPTION", "AMOUNT")
			for _, it := range resp.Items {
				fmt.Fprintf(out, "%-10s  %-8s  %-9s  %-20s  %14s\n",
					it.Date.Format(dto.DateLayout),
					it.TransactionType,
					it.SourceType,
					truncate(it.Description, 20),
					it.Amount.StringFixed(2),
				)
			}
			fmt.Fprintf(out, "\nCredit: %s  Debit: %s  Net: %s\n",
				resp.Summary.TotalCredit.StringFixed(2),
				resp.Summary.TotalDebit.StringFixed(2),
				resp.Summary.Net.StringFixed(2),
			)
			return nil
		},
	}
	cashFlowCmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cashFlowCmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD)")
	cashFlowCmd.Flags().StringVar(&flowType, "type", "", "Only CREDIT or DEBIT rows")
	cashFlowCmd.Flags().StringVar(&source, "source", "", "Only CASH, BANK or EXPENSE rows")
	cashFlowCmd.Flags().BoolVar(&unified, "unified", true, "Hide the linked leg of cash-bank transfers")
	cmd.AddCommand(cashFlowCmd)

	return cmd
}

func checkConsistency(cmd *cobra.Command, opts *options) error {
	var resp dto.ConsistencyResponse
	err := getJSON(cmd.Context(), opts, "/api/v1/ledger/consistency", nil, &resp)
	var statusErr *statusError
	// An unhealthy ledger answers 409 with the full report.
	if errors.As(err, &statusErr) && statusErr.code == http.StatusConflict {
		if jerr := json.Unmarshal(statusErr.body, &resp); jerr != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		if err := printJSON(out, resp); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Ledger consistent:   %v\n", resp.LedgerConsistent)
		fmt.Fprintf(out, "Accounts reconciled: %d/%d\n", resp.ReconciledAccounts, resp.TotalAccounts)
		for _, im := range resp.Imbalances {
			fmt.Fprintf(out, "  unbalanced %s: debit %s credit %s\n", im.ReferenceNo, im.Debit.StringFixed(2), im.Credit.StringFixed(2))
		}
		for _, d := range resp.Discrepancies {
			fmt.Fprintf(out, "  account %s: recorded %s calculated %s\n", d.AccountID, d.RecordedBalance.StringFixed(2), d.CalculatedBalance.StringFixed(2))
		}
		for _, b := range resp.BrokenInstruments {
			fmt.Fprintf(out, "  %s %s: running balance chain broken\n", b.InstrumentKind, b.InstrumentID)
		}
	}

	if !resp.Healthy {
		fmt.Fprintln(out, "Consistency check FAILED")
		return errCheckFailed
	}
	fmt.Fprintln(out, "Consistency check PASSED")
	return nil
}

type statusError struct {
	code int
	body []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, truncate(string(e.body), 200))
}

func getJSON(ctx context.Context, opts *options, path string, query url.Values, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	u := opts.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, body: body}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
