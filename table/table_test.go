package table

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"bitbucket.org/mmdatafocus/indent_tracker/views"
)

type sample struct {
	IndentNo string          `json:"indentNo"`
	Vendor   string          `json:"vendorName"`
	Qty      int             `json:"qty"`
	Amount   decimal.Decimal `json:"amount"`
}

func sampleRecords(t *testing.T) []Record {
	t.Helper()
	recs, err := Records([]sample{
		{IndentNo: "IND-010", Vendor: "Acme Steel", Qty: 9, Amount: decimal.NewFromInt(1200)},
		{IndentNo: "IND-002", Vendor: "Bharat Bolts", Qty: 40, Amount: decimal.NewFromInt(80)},
		{IndentNo: "IND-007", Vendor: "acme paints", Qty: 100, Amount: decimal.NewFromInt(300)},
	})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	return recs
}

func TestRecordsNilSlice(t *testing.T) {
	recs, err := Records([]sample(nil))
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", recs)
	}
}

func TestSearch(t *testing.T) {
	recs := sampleRecords(t)

	tests := []struct {
		name   string
		fields []string
		term   string
		want   int
	}{
		{"blank term keeps all", []string{"vendorName"}, "  ", 3},
		{"case insensitive", []string{"vendorName"}, "ACME", 2},
		{"field restricted", []string{"indentNo"}, "acme", 0},
		{"all fields when none declared", nil, "bolts", 1},
		{"numbers are searchable", nil, "100", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(recs, tt.fields, tt.term)
			if len(got) != tt.want {
				t.Fatalf("got %d rows, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSortNumericAware(t *testing.T) {
	recs := sampleRecords(t)

	got := Sort(recs, "qty", false)
	if got[0].Text("qty") != "9" || got[2].Text("qty") != "100" {
		t.Fatalf("numeric sort wrong: %v %v %v", got[0]["qty"], got[1]["qty"], got[2]["qty"])
	}

	got = Sort(recs, "indentNo", true)
	if got[0].Text("indentNo") != "IND-010" || got[2].Text("indentNo") != "IND-002" {
		t.Fatalf("string sort desc wrong: %v", got)
	}

	if recs[0].Text("indentNo") != "IND-010" || recs[1].Text("indentNo") != "IND-002" {
		t.Fatalf("input was reordered")
	}
}

func TestSortMixedColumnIsTotal(t *testing.T) {
	cases := []struct {
		in       []string
		expected []string
	}{
		{[]string{"1a", "10", "9"}, []string{"9", "10", "1a"}},
		{[]string{"10", "1a", "9"}, []string{"9", "10", "1a"}},
		{[]string{"9", "1a", "10"}, []string{"9", "10", "1a"}},
		{[]string{"b", "", "-3", "a"}, []string{"-3", "", "a", "b"}},
		{[]string{"NaN", "2", "1"}, []string{"1", "2", "NaN"}},
	}
	for _, tc := range cases {
		recs := make([]Record, len(tc.in))
		for i, v := range tc.in {
			recs[i] = Record{"v": v}
		}
		got := Sort(recs, "v", false)
		for i := range got {
			if got[i].Text("v") != tc.expected[i] {
				t.Fatalf("sort %v: expected %v at %d, got %q", tc.in, tc.expected, i, got[i].Text("v"))
			}
		}
	}
}

func TestApplyPaging(t *testing.T) {
	recs := sampleRecords(t)

	page := Apply(recs, nil, Query{SortBy: "qty", Limit: 2, Offset: 1})
	if page.Total != 3 || len(page.Rows) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Rows[0].Text("qty") != "40" {
		t.Fatalf("expected second row by qty, got %v", page.Rows[0]["qty"])
	}

	page = Apply(recs, nil, Query{Offset: 10})
	if page.Total != 3 || len(page.Rows) != 0 || page.Rows == nil {
		t.Fatalf("offset past end: %+v", page)
	}
	if page.Limit != DefaultLimit {
		t.Fatalf("default limit not applied: %d", page.Limit)
	}

	page = Apply(recs, nil, Query{Limit: 10000})
	if page.Limit != MaxLimit {
		t.Fatalf("limit not capped: %d", page.Limit)
	}
}

func TestColumnsDerived(t *testing.T) {
	cols := Columns(sampleRecords(t))
	want := []string{"amount", "indentNo", "qty", "vendorName"}
	if len(cols) != len(want) {
		t.Fatalf("got %d columns, want %d", len(cols), len(want))
	}
	for i, k := range want {
		if cols[i].Key != k {
			t.Fatalf("column %d = %q, want %q", i, cols[i].Key, k)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	recs := sampleRecords(t)
	cols := []views.Column{{Key: "indentNo", Header: "Indent No."}, {Key: "qty", Header: "Qty"}}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, "PO to Make/Not", cols, recs); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheet := "PO to Make-Not"
	if got := f.GetSheetName(0); got != sheet {
		t.Fatalf("sheet name = %q, want %q", got, sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Indent No." || rows[1][0] != "IND-010" || rows[1][1] != "9" {
		t.Fatalf("unexpected cells: %v", rows)
	}
}

func TestWriteWorkbookUniqueTitles(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWorkbook(&buf, []Sheet{
		{Title: "INDENT", Rows: sampleRecords(t)},
		{Title: "INDENT", Rows: nil},
	})
	if err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) != 2 || names[0] != "INDENT" || names[1] != "INDENT (2)" {
		t.Fatalf("unexpected sheets %v", names)
	}
}

func TestWriteWorkbookEmpty(t *testing.T) {
	if err := WriteWorkbook(&bytes.Buffer{}, nil); err == nil {
		t.Fatalf("expected error for empty workbook")
	}
}
