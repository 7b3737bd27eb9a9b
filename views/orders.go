package views

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
)

const (
	POStatusReceived    = "Received"
	POStatusNotReceived = "Not Received"
	// POStatusRevised marks a PO number no indent refers to any more.
	POStatusRevised = "Revised"
)

type POHistoryRow struct {
	PoCopy      string          `json:"poCopy"`
	PoNumber    string          `json:"poNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	VendorName  string          `json:"vendorName"`
	Status      string          `json:"status"`
}

func POHistory(src Source, user models.User) []POHistoryRow {
	onIndent := poNumbers(src.Snapshot(sheets.Indent))
	received := map[string]struct{}{}
	for _, r := range models.DecodeReceived(src.Snapshot(sheets.Received)) {
		if r.PoNumber != "" {
			received[r.PoNumber] = struct{}{}
		}
	}

	pos := models.DecodePOMasters(scopeToFirm(user, src.Snapshot(sheets.POMaster)))
	out := make([]POHistoryRow, 0, len(pos))
	for _, po := range pos {
		status := POStatusRevised
		if _, ok := onIndent[po.PoNumber]; ok {
			status = POStatusNotReceived
			if _, ok := received[po.PoNumber]; ok {
				status = POStatusReceived
			}
		}
		out = append(out, POHistoryRow{
			PoCopy:      po.Pdf,
			PoNumber:    po.PoNumber,
			TotalAmount: po.TotalPoAmount,
			VendorName:  po.PartyName,
			Status:      status,
		})
	}
	return out
}

func poNumbers(rows []sheets.Row) map[string]struct{} {
	set := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if n := r.Trimmed("poNumber"); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// DistinctPONumbers counts unique non-blank PO numbers.
func DistinctPONumbers(rows []sheets.Row) int {
	return len(poNumbers(rows))
}
