package models

import (
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
)

// POMaster is one issued purchase order from the PO MASTER sheet.
type POMaster struct {
	RowIndex      int             `json:"rowIndex"`
	Timestamp     string          `json:"timestamp"`
	PoNumber      string          `json:"poNumber"`
	PartyName     string          `json:"partyName"`
	Pdf           string          `json:"pdf"`
	TotalPoAmount decimal.Decimal `json:"totalPoAmount"`
	FirmNameMatch string          `json:"firmNameMatch"`
}

func DecodePOMasters(rows []sheets.Row) []POMaster {
	out := make([]POMaster, 0, len(rows))
	for _, r := range rows {
		out = append(out, POMaster{
			RowIndex:      r.Int("rowIndex"),
			Timestamp:     r.String("timestamp"),
			PoNumber:      r.Trimmed("poNumber"),
			PartyName:     r.String("partyName"),
			Pdf:           r.String("pdf"),
			TotalPoAmount: r.Decimal("totalPoAmount"),
			FirmNameMatch: r.String("firmNameMatch"),
		})
	}
	return out
}

// Received is a goods receipt against a PO from the RECEIVED sheet.
type Received struct {
	Timestamp string `json:"timestamp"`
	PoNumber  string `json:"poNumber"`
}

func DecodeReceived(rows []sheets.Row) []Received {
	out := make([]Received, 0, len(rows))
	for _, r := range rows {
		out = append(out, Received{
			Timestamp: r.String("timestamp"),
			PoNumber:  r.Trimmed("poNumber"),
		})
	}
	return out
}
