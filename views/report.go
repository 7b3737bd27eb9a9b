package views

import (
	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
)

// PCReport passes the stage summary through; it is maintained per firm by the
// sheet itself and shown to everyone holding the gate.
func PCReport(src Source, _ models.User) []models.PCReport {
	return models.DecodePCReports(src.Snapshot(sheets.PCReport))
}

// StageRows is the generic view behind routes that list raw sheet rows
// waiting at one step: firm scope, predicate, then the row as stored.
func StageRows(src Source, user models.User, sheet sheets.SheetName, pending Predicate) []sheets.Row {
	out := []sheets.Row{}
	for _, r := range scopeToFirm(user, src.Snapshot(sheet)) {
		if pending == nil || pending(r) {
			out = append(out, r)
		}
	}
	return out
}

// Inventory lists the INVENTORY sheet unchanged.
func Inventory(src Source, _ models.User) []sheets.Row {
	rows := src.Snapshot(sheets.Inventory)
	if rows == nil {
		return []sheets.Row{}
	}
	return rows
}
