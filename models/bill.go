package models

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
)

// StoreIn is one row of the STORE IN sheet: a lifted consignment received at
// stores, carrying the vendor bill once it arrives.
type StoreIn struct {
	stageFields

	RowIndex               int             `json:"rowIndex"`
	Timestamp              string          `json:"timestamp"`
	LiftNumber             string          `json:"liftNumber"`
	IndentNo               string          `json:"indentNo"`
	IndentNumber           string          `json:"indentNumber"`
	PoNumber               string          `json:"poNumber"`
	PoDate                 string          `json:"poDate"`
	PoCopy                 string          `json:"poCopy"`
	VendorName             string          `json:"vendorName"`
	Vendor                 string          `json:"vendor"`
	ProductName            string          `json:"productName"`
	Product                string          `json:"product"`
	UOM                    string          `json:"uom"`
	Qty                    decimal.Decimal `json:"qty"`
	Quantity               decimal.Decimal `json:"quantity"`
	BillNo                 string          `json:"billNo"`
	TypeOfBill             string          `json:"typeOfBill"`
	BillAmount             decimal.Decimal `json:"billAmount"`
	DiscountAmount         decimal.Decimal `json:"discountAmount"`
	PaymentType            string          `json:"paymentType"`
	AdvanceAmountIfAny     string          `json:"advanceAmountIfAny"`
	PhotoOfBill            string          `json:"photoOfBill"`
	TransportationInclude  string          `json:"transportationInclude"`
	TransporterName        string          `json:"transporterName"`
	Amount                 decimal.Decimal `json:"amount"`
	BillStatus             string          `json:"billStatus"`
	LeadTimeToLiftMaterial decimal.Decimal `json:"leadTimeToLiftMaterial"`
	FirmNameMatch          string          `json:"firmNameMatch"`
}

func DecodeStoreIn(r sheets.Row) StoreIn {
	return StoreIn{
		stageFields:            stageFields{raw: r},
		RowIndex:               r.Int("rowIndex"),
		Timestamp:              r.String("timestamp"),
		LiftNumber:             r.String("liftNumber"),
		IndentNo:               r.Trimmed("indentNo"),
		IndentNumber:           r.Trimmed("indentNumber"),
		PoNumber:               r.Trimmed("poNumber"),
		PoDate:                 r.String("poDate"),
		PoCopy:                 r.String("poCopy"),
		VendorName:             r.String("vendorName"),
		Vendor:                 r.String("vendor"),
		ProductName:            r.String("productName"),
		Product:                r.String("product"),
		UOM:                    r.String("uom"),
		Qty:                    r.Decimal("qty"),
		Quantity:               r.Decimal("quantity"),
		BillNo:                 r.String("billNo"),
		TypeOfBill:             r.String("typeOfBill"),
		BillAmount:             r.Decimal("billAmount"),
		DiscountAmount:         r.Decimal("discountAmount"),
		PaymentType:            r.String("paymentType"),
		AdvanceAmountIfAny:     r.String("advanceAmountIfAny"),
		PhotoOfBill:            r.String("photoOfBill"),
		TransportationInclude:  r.String("transportationInclude"),
		TransporterName:        r.String("transporterName"),
		Amount:                 r.Decimal("amount"),
		BillStatus:             r.String("billStatus"),
		LeadTimeToLiftMaterial: r.Decimal("leadTimeToLiftMaterial"),
		FirmNameMatch:          r.String("firmNameMatch"),
	}
}

func DecodeStoreIns(rows []sheets.Row) []StoreIn {
	out := make([]StoreIn, 0, len(rows))
	for _, r := range rows {
		out = append(out, DecodeStoreIn(r))
	}
	return out
}

// AdvanceAmount reads the free-text advance column as a number, zero when it is not one.
func (s StoreIn) AdvanceAmount() decimal.Decimal {
	return s.raw.Decimal("advanceAmountIfAny")
}
