package views

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
	"bitbucket.org/mmdatafocus/indent_tracker/utils"
)

// PendingIndent is a row of the "PO to make or not" list.
type PendingIndent struct {
	Date           string          `json:"date"`
	IndentNo       string          `json:"indentNo"`
	FirmNameMatch  string          `json:"firmNameMatch"`
	Product        string          `json:"product"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	UOM            string          `json:"uom"`
	VendorName     string          `json:"vendorName"`
	PaymentTerm    string          `json:"paymentTerm"`
	Specifications string          `json:"specifications"`
	RowIndex       int             `json:"rowIndex"`
}

func PendingIndents(src Source, user models.User) []PendingIndent {
	out := []PendingIndent{}
	for _, r := range scopeToFirm(user, src.Snapshot(sheets.Indent)) {
		if !AwaitingPODecision(r) {
			continue
		}
		in := models.DecodeIndent(r)
		out = append(out, PendingIndent{
			Date:           utils.FormatDisplayDate(in.Timestamp),
			IndentNo:       in.IndentNumber,
			FirmNameMatch:  in.FirmNameMatch,
			Product:        in.ProductName,
			Quantity:       in.PendingPoQty,
			Rate:           in.ApprovedRate,
			UOM:            in.UOM,
			VendorName:     in.ApprovedVendorName,
			PaymentTerm:    in.ApprovedPaymentTerm,
			Specifications: in.Specifications,
			RowIndex:       in.RowIndex,
		})
	}
	sortDesc(out, func(p PendingIndent) string { return p.IndentNo })
	return out
}

// PaidIndents collects the indent numbers PAYMENT HISTORY already settles.
func PaidIndents(paymentRows []sheets.Row) map[string]struct{} {
	paid := make(map[string]struct{}, len(paymentRows))
	for _, p := range models.DecodePayments(paymentRows) {
		if key := p.SettledIndent(); key != "" {
			paid[key] = struct{}{}
		}
	}
	return paid
}

// PaymentDue is an indent whose payment stage is open.
type PaymentDue struct {
	IndentNo        string          `json:"indentNo"`
	BillNo          string          `json:"billNo"`
	VendorName      string          `json:"vendorName"`
	ProductName     string          `json:"productName"`
	Qty             decimal.Decimal `json:"qty"`
	BillAmount      decimal.Decimal `json:"billAmount"`
	AdvanceAmount   decimal.Decimal `json:"advanceAmount"`
	PaymentType     string          `json:"paymentType"`
	FirmNameMatch   string          `json:"firmNameMatch"`
	MakePaymentLink string          `json:"makePaymentLink"`
	Planned7Date    string          `json:"planned7Date"`
}

type billInfo struct {
	billNo  string
	amount  decimal.Decimal
	advance decimal.Decimal
}

func MakePayment(src Source, user models.User) []PaymentDue {
	awaiting := AwaitingPayment(PaidIndents(src.Snapshot(sheets.PaymentHistory)))

	bills := make(map[string]billInfo)
	for _, s := range models.DecodeStoreIns(src.Snapshot(sheets.StoreIn)) {
		bills[s.IndentNo] = billInfo{billNo: s.BillNo, amount: s.BillAmount, advance: s.AdvanceAmount()}
	}

	out := []PaymentDue{}
	for _, r := range scopeToFirm(user, src.Snapshot(sheets.Indent)) {
		if !awaiting(r) {
			continue
		}
		in := models.DecodeIndent(r)
		bill := bills[in.IndentNumber]
		out = append(out, PaymentDue{
			IndentNo:        in.IndentNumber,
			BillNo:          bill.billNo,
			VendorName:      in.VendorName(),
			ProductName:     in.ProductName,
			Qty:             in.Quantity,
			BillAmount:      bill.amount,
			AdvanceAmount:   bill.advance,
			PaymentType:     in.PaymentType,
			FirmNameMatch:   in.FirmNameMatch,
			MakePaymentLink: in.MakePaymentLink,
			Planned7Date:    utils.FormatShortDate(in.Planned(7)),
		})
	}
	sortDesc(out, func(p PaymentDue) string { return p.IndentNo })
	return out
}
