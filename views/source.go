package views

import (
	"sort"

	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
)

// Source is the read side of the sheets store.
type Source interface {
	Snapshot(name sheets.SheetName) []sheets.Row
}

// Sheets is a fixed Source, used by tools that fetch once and by tests.
type Sheets map[sheets.SheetName][]sheets.Row

func (s Sheets) Snapshot(name sheets.SheetName) []sheets.Row {
	return s[name]
}

// scopeToFirm keeps the rows the user may see by firmNameMatch.
func scopeToFirm(user models.User, rows []sheets.Row) []sheets.Row {
	if user.SeesAllFirms() {
		return rows
	}
	out := make([]sheets.Row, 0, len(rows))
	for _, r := range rows {
		if user.CanSeeFirm(r.String("firmNameMatch")) {
			out = append(out, r)
		}
	}
	return out
}

// sortDesc orders by a string key, highest first. The comparison is
// lexicographic, so "IND-10" sorts below "IND-9".
func sortDesc[T any](items []T, key func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]) > key(items[j])
	})
}
