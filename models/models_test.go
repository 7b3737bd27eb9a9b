package models

import (
	"encoding/json"
	"testing"

	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
)

func TestDecodeIndent(t *testing.T) {
	in := DecodeIndent(sheets.Row{
		"rowIndex":           json.Number("7"),
		"indentNumber":       " IND-010 ",
		"firmNameMatch":      "Acme",
		"pendingPoQty":       json.Number("4"),
		"approvedRate":       "125.50",
		"approvedVendorName": "",
		"vendorName1":        "Sharma Traders",
		"poRequred":          "Yes",
		"planned7":           " 2024-01-05 ",
	})

	if in.RowIndex != 7 || in.IndentNumber != "IND-010" {
		t.Fatalf("unexpected identity %+v", in)
	}
	if in.PendingPoQty.String() != "4" || in.ApprovedRate.String() != "125.5" {
		t.Fatalf("unexpected amounts %s %s", in.PendingPoQty, in.ApprovedRate)
	}
	if in.VendorName() != "Sharma Traders" {
		t.Fatalf("expected fallback vendor, got %q", in.VendorName())
	}
	if in.PoRequired != "Yes" {
		t.Fatalf("expected poRequred column, got %q", in.PoRequired)
	}
	if in.Planned(7) != "2024-01-05" || in.Actual(7) != "" {
		t.Fatalf("unexpected stage 7 %q / %q", in.Planned(7), in.Actual(7))
	}
}

func TestStoreInAdvanceAmount(t *testing.T) {
	s := DecodeStoreIn(sheets.Row{"advanceAmountIfAny": "2,500"})
	if s.AdvanceAmount().String() != "2500" {
		t.Fatalf("unexpected advance %s", s.AdvanceAmount())
	}
	s = DecodeStoreIn(sheets.Row{"advanceAmountIfAny": "2024-01-01"})
	if !s.AdvanceAmount().IsZero() {
		t.Fatalf("date text should not parse as an amount")
	}
}

func TestPaymentSettledIndent(t *testing.T) {
	cases := []struct {
		row     sheets.Row
		paid    string
		settled string
	}{
		{sheets.Row{"indentNumber": "IND-3"}, "", "IND-3"},
		{sheets.Row{"uniqueNumber": "IND-4\t", "indentNumber": "IND-X"}, "IND-4", "IND-4"},
		{sheets.Row{}, "", ""},
	}
	for _, tc := range cases {
		p := DecodePayments([]sheets.Row{tc.row})[0]
		if p.PaidIndent() != tc.paid || p.SettledIndent() != tc.settled {
			t.Fatalf("%v: expected paid %q settled %q, got %q %q", tc.row, tc.paid, tc.settled, p.PaidIndent(), p.SettledIndent())
		}
	}
}

func TestDecodePaymentsAmount(t *testing.T) {
	cases := []struct {
		cell     any
		expected string
	}{
		{json.Number("-500"), "-500"},
		{json.Number("1250.5"), "1250.5"},
		{"₹1,250.50", "1250.5"},
		{"n/a", "0"},
		{nil, "0"},
	}
	for _, tc := range cases {
		p := DecodePayments([]sheets.Row{{"amountToBePaid": tc.cell}})[0]
		if p.AmountToBePaid.String() != tc.expected {
			t.Fatalf("amount %v: expected %s, got %s", tc.cell, tc.expected, p.AmountToBePaid)
		}
	}
}

func TestUserFirmScope(t *testing.T) {
	cases := []struct {
		userFirm string
		rowFirm  string
		expected bool
	}{
		{"ALL", "Beta", true},
		{"all", "", true},
		{"Acme", "Acme", true},
		{"Acme", "acme", false},
		{"Acme", "Beta", false},
	}
	for _, tc := range cases {
		u := NewUser("u", tc.userFirm, nil)
		if got := u.CanSeeFirm(tc.rowFirm); got != tc.expected {
			t.Fatalf("CanSeeFirm(%q as %q) expected %v, got %v", tc.rowFirm, tc.userFirm, tc.expected, got)
		}
	}
}

func TestUserCan(t *testing.T) {
	u := NewUser("u", "all", []string{"makePayment", " ", "billNotReceived"})
	if !u.Can("") || !u.Can("makePayment") || u.Can("administrate") {
		t.Fatalf("unexpected permissions %v", u.Permissions)
	}
}
