package routes

import (
	"encoding/json"
	"reflect"
	"testing"

	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
	"bitbucket.org/mmdatafocus/indent_tracker/views"
)

func TestTable_PathsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Table() {
		if seen[r.Path] {
			t.Fatalf("duplicate path %q", r.Path)
		}
		seen[r.Path] = true
		for _, s := range r.Sheets {
			if !s.Valid() {
				t.Fatalf("%s: unknown sheet %q", r.Path, s)
			}
		}
		if r.HasView() && len(r.Sheets) == 0 {
			t.Fatalf("%s: view without source sheets", r.Path)
		}
	}
}

func TestCounters_MissingSheetsAreZero(t *testing.T) {
	empty := views.Sheets{}
	for _, r := range Table() {
		if n := r.Count(empty); n != 0 {
			t.Fatalf("%s: expected 0 on empty source, got %d", r.Path, n)
		}
	}
}

func TestVisible(t *testing.T) {
	u := models.NewUser("clerk", "Acme", []string{"billNotReceived", "ordersView"})
	var paths []string
	for _, r := range Visible(u) {
		paths = append(paths, r.Path)
	}
	want := []string{"", "po-history", "get-lift", "Payment-Status", "Bill-Not-Received", "training-video", "license"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
}

func TestBadges(t *testing.T) {
	src := views.Sheets{
		sheets.StoreIn: {
			{"indentNo": "IND-1", "planned11": "2024-05-01", "firmNameMatch": "Acme"},
			{"indentNo": "IND-2", "planned11": "2024-05-01", "actual11": "2024-05-03", "firmNameMatch": "Acme"},
			{"indentNo": "IND-3", "planned7": "2024-05-01", "firmNameMatch": "Acme"},
		},
		sheets.POMaster: {{"poNumber": "PO-1"}, {"poNumber": " PO-1 "}, {"poNumber": "PO-2"}, {"poNumber": ""}},
		sheets.Indent: {
			{"indentNumber": "IND-1", "planned7": "2024-05-01"},
			{"indentNumber": "IND-2", "planned7": "2024-05-01"},
			{"indentNumber": "IND-3", "poRequred": "Yes", "pendingPoQty": json.Number("2"), "approvedVendorName": "A"},
		},
		sheets.PaymentHistory: {{"indentNumber": "IND-2", "timestamp": "2024-05-02"}},
	}
	admin := models.NewUser("admin", "all", []string{
		"billNotReceived", "ordersView", "insteadOfQualityCheckInReceivedItem", "makePayment", "pendingPo",
	})

	got := map[string]int{}
	for _, b := range Badges(src, admin) {
		got[b.Path] = b.Count
	}
	want := map[string]int{
		"Bill-Not-Received":              1,
		"po-history":                     2,
		"Quality-Check-In-Received-Item": 1,
		"Make-Payment":                   1,
		"pending-poss":                   1,
	}
	for path, n := range want {
		if got[path] != n {
			t.Fatalf("%s: expected %d, got %d", path, n, got[path])
		}
	}
	if _, ok := got["Send-Debit-Note"]; ok {
		t.Fatalf("gated route leaked into badges")
	}
}

func TestLookupAndView(t *testing.T) {
	r, ok := Lookup("Bill-Not-Received")
	if !ok || !r.HasView() {
		t.Fatalf("expected Bill-Not-Received with a view")
	}
	src := views.Sheets{sheets.StoreIn: {{"indentNo": "IND-1", "planned11": "x", "firmNameMatch": "Acme"}}}
	rows, ok := r.View(src, models.NewUser("u", "Acme", nil)).([]views.PendingBill)
	if !ok || len(rows) != 1 {
		t.Fatalf("unexpected view result %#v", rows)
	}
	if r.Count(src) != len(rows) {
		t.Fatalf("badge and table disagree")
	}

	if _, ok := Lookup("missing"); ok {
		t.Fatalf("expected missing route")
	}
	if r, _ := Lookup("create-po"); r.HasView() {
		t.Fatalf("create-po has no table")
	}
}

func TestTallyRoutesShareSheet(t *testing.T) {
	src := views.Sheets{sheets.TallyEntry: {
		{"indentNo": "IND-1", "planned1": "x"},
		{"indentNo": "IND-2", "planned2": "x"},
		{"indentNo": "IND-3", "planned2": "x", "actual2": "y"},
		{"indentNo": "IND-4", "planned5": "x"},
	}}
	cases := map[string]int{
		"audit-data":          1,
		"rectify-the-mistake": 1,
		"reaudit-data":        0,
		"take-entry-by-tally": 0,
		"AgainAuditing":       1,
	}
	for path, n := range cases {
		r, ok := Lookup(path)
		if !ok {
			t.Fatalf("missing route %s", path)
		}
		if got := r.Count(src); got != n {
			t.Fatalf("%s: expected %d, got %d", path, n, got)
		}
	}
}
