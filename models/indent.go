package models

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
)

// Indent is one row of the INDENT sheet: a purchase request travelling through
// approval, vendor selection, PO, lifting, store-in and payment.
type Indent struct {
	stageFields

	RowIndex            int             `json:"rowIndex"`
	Timestamp           string          `json:"timestamp"`
	IndentNumber        string          `json:"indentNumber"`
	FirmName            string          `json:"firmName"`
	FirmNameMatch       string          `json:"firmNameMatch"`
	ProductName         string          `json:"productName"`
	Specifications      string          `json:"specifications"`
	UOM                 string          `json:"uom"`
	Quantity            decimal.Decimal `json:"quantity"`
	PendingPoQty        decimal.Decimal `json:"pendingPoQty"`
	ApprovedRate        decimal.Decimal `json:"approvedRate"`
	VendorType          string          `json:"vendorType"`
	ApprovedVendorName  string          `json:"approvedVendorName"`
	VendorName1         string          `json:"vendorName1"`
	ApprovedPaymentTerm string          `json:"approvedPaymentTerm"`
	Status              string          `json:"status"`
	// PoRequired maps the sheet's "poRequred" column (header is misspelt in the workbook).
	PoRequired      string `json:"poRequred"`
	PoNumber        string `json:"poNumber"`
	LiftingStatus   string `json:"liftingStatus"`
	PaymentType     string `json:"paymentType"`
	MakePaymentLink string `json:"makePaymentLink"`
}

func DecodeIndent(r sheets.Row) Indent {
	return Indent{
		stageFields:         stageFields{raw: r},
		RowIndex:            r.Int("rowIndex"),
		Timestamp:           r.String("timestamp"),
		IndentNumber:        r.Trimmed("indentNumber"),
		FirmName:            r.String("firmName"),
		FirmNameMatch:       r.String("firmNameMatch"),
		ProductName:         r.String("productName"),
		Specifications:      r.String("specifications"),
		UOM:                 r.String("uom"),
		Quantity:            r.Decimal("quantity"),
		PendingPoQty:        r.Decimal("pendingPoQty"),
		ApprovedRate:        r.Decimal("approvedRate"),
		VendorType:          r.Trimmed("vendorType"),
		ApprovedVendorName:  r.Trimmed("approvedVendorName"),
		VendorName1:         r.Trimmed("vendorName1"),
		ApprovedPaymentTerm: r.String("approvedPaymentTerm"),
		Status:              r.Trimmed("status"),
		PoRequired:          r.Trimmed("poRequred"),
		PoNumber:            r.Trimmed("poNumber"),
		LiftingStatus:       r.Trimmed("liftingStatus"),
		PaymentType:         r.String("paymentType"),
		MakePaymentLink:     r.Trimmed("makePaymentLink"),
	}
}

// VendorName prefers the approved vendor and falls back to the first quoted one.
func (i Indent) VendorName() string {
	if i.ApprovedVendorName != "" {
		return i.ApprovedVendorName
	}
	return i.VendorName1
}
