package views

import (
	"strings"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
	"bitbucket.org/mmdatafocus/indent_tracker/utils"
)

const missing = "-"

type PaymentStatusRow struct {
	Timestamp       string          `json:"timestamp"`
	ApPaymentNumber string          `json:"apPaymentNumber"`
	Status          string          `json:"status"`
	UniqueNumber    string          `json:"uniqueNumber"`
	FmsName         string          `json:"fmsName"`
	PayTo           string          `json:"payTo"`
	AmountToBePaid  decimal.Decimal `json:"amountToBePaid"`
	Remarks         string          `json:"remarks"`
	AnyAttachments  string          `json:"anyAttachments"`
}

// PaymentStatus lists PAYMENT HISTORY for display. Payments carry no firm, so
// the list is not firm scoped.
func PaymentStatus(src Source, _ models.User) []PaymentStatusRow {
	out := []PaymentStatusRow{}
	for _, p := range models.DecodePayments(src.Snapshot(sheets.PaymentHistory)) {
		row := PaymentStatusRow{
			Timestamp:       utils.DisplayDateOr(p.Timestamp, missing),
			ApPaymentNumber: orDefault(p.ApPaymentNumber, "AP-XXXX"),
			Status:          orDefault(p.Status, "Yes"),
			UniqueNumber:    orDefault(p.PaidIndent(), missing),
			FmsName:         orDefault(p.FmsName, missing),
			PayTo:           orDefault(p.PayTo, missing),
			AmountToBePaid:  p.AmountToBePaid,
			Remarks:         orDefault(p.Remarks, missing),
			AnyAttachments:  orDefault(p.AnyAttachments, missing),
		}
		if row.Timestamp == missing && row.UniqueNumber == missing && row.PayTo == missing {
			continue
		}
		out = append(out, row)
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
