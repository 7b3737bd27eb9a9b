package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
	"bitbucket.org/mmdatafocus/indent_tracker/utils"
)

// Payment is one row of PAYMENT HISTORY. Headers are normalized by the sheets
// client, so only canonical names are read here.
type Payment struct {
	Timestamp       string          `json:"timestamp"`
	ApPaymentNumber string          `json:"apPaymentNumber"`
	Status          string          `json:"status"`
	UniqueNumber    string          `json:"uniqueNumber"`
	IndentNumber    string          `json:"indentNumber"`
	FmsName         string          `json:"fmsName"`
	PayTo           string          `json:"payTo"`
	AmountToBePaid  decimal.Decimal `json:"amountToBePaid"`
	Remarks         string          `json:"remarks"`
	AnyAttachments  string          `json:"anyAttachments"`
}

func DecodePayments(rows []sheets.Row) []Payment {
	out := make([]Payment, 0, len(rows))
	for _, r := range rows {
		out = append(out, Payment{
			Timestamp:       r.Trimmed("timestamp"),
			ApPaymentNumber: r.Trimmed("apPaymentNumber"),
			Status:          r.Trimmed("status"),
			UniqueNumber:    r.String("uniqueNumber"),
			IndentNumber:    r.Trimmed("indentNumber"),
			FmsName:         r.Trimmed("fmsName"),
			PayTo:           r.Trimmed("payTo"),
			AmountToBePaid:  paymentAmount(r),
			Remarks:         r.Trimmed("remarks"),
			AnyAttachments:  r.Trimmed("anyAttachments"),
		})
	}
	return out
}

// paymentAmount keeps numeric cells exact, sign included. Only typed-in text
// such as "₹1,250.50" goes through the loose parser.
func paymentAmount(r sheets.Row) decimal.Decimal {
	switch r["amountToBePaid"].(type) {
	case json.Number, float64, int, int64:
		return r.Decimal("amountToBePaid")
	}
	return utils.ParseLooseAmount(r.String("amountToBePaid"))
}

// PaidIndent is the uniqueNumber a payment settles, with stray tabs removed.
func (p Payment) PaidIndent() string {
	return strings.TrimSpace(strings.ReplaceAll(p.UniqueNumber, "\t", ""))
}

// SettledIndent is PaidIndent, or the older indentNumber column when a row
// predates uniqueNumber.
func (p Payment) SettledIndent() string {
	if key := p.PaidIndent(); key != "" {
		return key
	}
	return p.IndentNumber
}

// PCReport is one stage summary line of the PC REPORT sheet.
type PCReport struct {
	Stage         string `json:"stage"`
	FirmName      string `json:"firmName"`
	TotalPending  int    `json:"totalPending"`
	TotalComplete int    `json:"totalComplete"`
}

func DecodePCReports(rows []sheets.Row) []PCReport {
	out := make([]PCReport, 0, len(rows))
	for _, r := range rows {
		out = append(out, PCReport{
			Stage:         r.String("stage"),
			FirmName:      r.String("firmName"),
			TotalPending:  r.Int("totalPending"),
			TotalComplete: r.Int("totalComplete"),
		})
	}
	return out
}
