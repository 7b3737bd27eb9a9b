package views

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
)

// PendingBill is a STORE IN row whose vendor bill has not been received.
type PendingBill struct {
	LiftNumber             string          `json:"liftNumber"`
	IndentNo               string          `json:"indentNo"`
	BillNo                 string          `json:"billNo"`
	VendorName             string          `json:"vendorName"`
	ProductName            string          `json:"productName"`
	Qty                    decimal.Decimal `json:"qty"`
	TypeOfBill             string          `json:"typeOfBill"`
	BillAmount             decimal.Decimal `json:"billAmount"`
	PaymentType            string          `json:"paymentType"`
	AdvanceAmountIfAny     string          `json:"advanceAmountIfAny"`
	PhotoOfBill            string          `json:"photoOfBill"`
	TransportationInclude  string          `json:"transportationInclude"`
	TransporterName        string          `json:"transporterName"`
	Amount                 decimal.Decimal `json:"amount"`
	PoDate                 string          `json:"poDate"`
	PoNumber               string          `json:"poNumber"`
	Vendor                 string          `json:"vendor"`
	IndentNumber           string          `json:"indentNumber"`
	Product                string          `json:"product"`
	UOM                    string          `json:"uom"`
	Quantity               decimal.Decimal `json:"quantity"`
	PoCopy                 string          `json:"poCopy"`
	BillStatus             string          `json:"billStatus"`
	LeadTimeToLiftMaterial decimal.Decimal `json:"leadTimeToLiftMaterial"`
	DiscountAmount         decimal.Decimal `json:"discountAmount"`
	RowIndex               int             `json:"rowIndex"`
	FirmNameMatch          string          `json:"firmNameMatch"`
}

func BillNotReceived(src Source, user models.User) []PendingBill {
	out := []PendingBill{}
	for _, r := range scopeToFirm(user, src.Snapshot(sheets.StoreIn)) {
		if !AwaitingBill(r) {
			continue
		}
		s := models.DecodeStoreIn(r)
		out = append(out, PendingBill{
			LiftNumber:             s.LiftNumber,
			IndentNo:               s.IndentNo,
			BillNo:                 s.BillNo,
			VendorName:             s.VendorName,
			ProductName:            s.ProductName,
			Qty:                    s.Qty,
			TypeOfBill:             s.TypeOfBill,
			BillAmount:             s.BillAmount,
			PaymentType:            s.PaymentType,
			AdvanceAmountIfAny:     s.AdvanceAmountIfAny,
			PhotoOfBill:            s.PhotoOfBill,
			TransportationInclude:  s.TransportationInclude,
			TransporterName:        s.TransporterName,
			Amount:                 s.Amount,
			PoDate:                 s.PoDate,
			PoNumber:               s.PoNumber,
			Vendor:                 s.Vendor,
			IndentNumber:           s.IndentNumber,
			Product:                s.Product,
			UOM:                    s.UOM,
			Quantity:               s.Quantity,
			PoCopy:                 s.PoCopy,
			BillStatus:             s.BillStatus,
			LeadTimeToLiftMaterial: s.LeadTimeToLiftMaterial,
			DiscountAmount:         s.DiscountAmount,
			RowIndex:               s.RowIndex,
			FirmNameMatch:          s.FirmNameMatch,
		})
	}
	return out
}
