package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// VoucherPrefix encodes the voucher type.
type VoucherPrefix string

const (
	VoucherReceived VoucherPrefix = "RV"
	VoucherIssued   VoucherPrefix = "PV"
	VoucherExpense  VoucherPrefix = "EV"
	VoucherLong     VoucherPrefix = "LV"
)

// VoucherSeqWidth is the zero-padded width of a voucher sequence.
const VoucherSeqWidth = 4

// VoucherYearPrefix returns the prefix shared by all vouchers of a type in
// a year, e.g. RV2024.
func VoucherYearPrefix(prefix VoucherPrefix, year int) string {
	return fmt.Sprintf("%s%04d", prefix, year)
}

// FormatVoucherNo returns <PREFIX><YEAR><4-digit-seq>.
func FormatVoucherNo(prefix VoucherPrefix, year, seq int) string {
	return fmt.Sprintf("%s%0*d", VoucherYearPrefix(prefix, year), VoucherSeqWidth, seq)
}

// NextVoucherSeq returns the sequence following last, the highest voucher
// already issued for prefix and year. An empty or foreign last yields 1.
func NextVoucherSeq(prefix VoucherPrefix, year int, last string) int {
	head := VoucherYearPrefix(prefix, year)
	if !strings.HasPrefix(last, head) {
		return 1
	}
	seq, err := strconv.Atoi(last[len(head):])
	if err != nil || seq < 0 {
		return 1
	}
	return seq + 1
}

// FormatLongVoucherNo returns LV-YYMMDD-NNN.
func FormatLongVoucherNo(date time.Time, suffix int) string {
	return fmt.Sprintf("%s-%s-%03d", VoucherLong, date.UTC().Format("060102"), suffix%1000)
}
