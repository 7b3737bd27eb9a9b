package routes

import (
	"bitbucket.org/mmdatafocus/indent_tracker/models"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
	"bitbucket.org/mmdatafocus/indent_tracker/views"
)

// ViewFunc derives the table rows of a route. The result is always a slice.
type ViewFunc func(src views.Source, user models.User) any

// CounterFunc computes a route's badge. Missing sheets count as empty.
type CounterFunc func(src views.Source) int

type Route struct {
	Path         string             `json:"path"`
	Name         string             `json:"name"`
	GateKey      string             `json:"gateKey,omitempty"`
	Sheets       []sheets.SheetName `json:"sheets,omitempty"`
	Columns      []views.Column     `json:"columns,omitempty"`
	SearchFields []string           `json:"searchFields,omitempty"`
	View         ViewFunc           `json:"-"`
	Counter      CounterFunc        `json:"-"`
}

// HasView reports whether the route is backed by a table.
func (r Route) HasView() bool { return r.View != nil }

func (r Route) Count(src views.Source) int {
	if r.Counter == nil {
		return 0
	}
	return r.Counter(src)
}

func stage(sheet sheets.SheetName, p views.Predicate) ViewFunc {
	return func(src views.Source, user models.User) any {
		return views.StageRows(src, user, sheet, p)
	}
}

func count(sheet sheets.SheetName, p views.Predicate) CounterFunc {
	return func(src views.Source) int {
		return views.Count(src.Snapshot(sheet), p)
	}
}

var (
	indentSearch  = []string{"indentNumber", "productName", "firmNameMatch", "approvedVendorName"}
	storeInSearch = []string{"indentNo", "liftNumber", "vendorName", "productName", "firmNameMatch"}
	tallySearch   = []string{"indentNo", "billNo", "vendorName", "firmNameMatch"}
)

func indentColumns(extra ...views.Column) []views.Column {
	return views.StageColumns("indentNumber", "Indent Number", extra...)
}

func planned(n string) views.Column {
	return views.Column{Key: "planned" + n, Header: "Planned"}
}

// indentNoColumns serves STORE IN and TALLY ENTRY, which key rows by indentNo.
func indentNoColumns(n string) []views.Column {
	return views.StageColumns("indentNo", "Indent No.", planned(n))
}

var table = []Route{
	{Path: "", Name: "Dashboard"},
	{Path: "store-issue", Name: "Store Issue", GateKey: "storeIssue"},
	{
		Path: "Issue-data", Name: "Issue Data", GateKey: "issueData",
		Sheets:  []sheets.SheetName{sheets.Issue},
		View:    stage(sheets.Issue, views.AwaitingIssue),
		Counter: count(sheets.Issue, views.AwaitingIssue),
	},
	{
		Path: "inventory", Name: "Inventory", GateKey: "inventoryView",
		Sheets: []sheets.SheetName{sheets.Inventory},
		View:   func(src views.Source, user models.User) any { return views.Inventory(src, user) },
	},
	{Path: "create-indent", Name: "Create Indent", GateKey: "createIndent"},
	{
		Path: "approve-indent", Name: "Approve Indent", GateKey: "indentApprovalView",
		Sheets:       []sheets.SheetName{sheets.Indent},
		Columns:      indentColumns(planned("1")),
		SearchFields: indentSearch,
		View:         stage(sheets.Indent, views.AwaitingApproval),
		Counter:      count(sheets.Indent, views.AwaitingApproval),
	},
	{
		Path: "vendor-rate-update", Name: "Vendor Rate Update", GateKey: "updateVendorView",
		Sheets:       []sheets.SheetName{sheets.Indent},
		Columns:      indentColumns(planned("2")),
		SearchFields: indentSearch,
		View:         stage(sheets.Indent, views.AwaitingVendorRate),
		Counter:      count(sheets.Indent, views.AwaitingVendorRate),
	},
	{
		Path: "three-party-approval", Name: "Three Party Approval", GateKey: "threePartyApprovalView",
		Sheets:       []sheets.SheetName{sheets.Indent},
		Columns:      indentColumns(planned("3")),
		SearchFields: indentSearch,
		View:         stage(sheets.Indent, views.AwaitingThreePartyApproval),
		Counter:      count(sheets.Indent, views.AwaitingThreePartyApproval),
	},
	{
		Path: "pending-pos", Name: "PO to Make/Not", GateKey: "pendingIndentsView",
		Sheets:       []sheets.SheetName{sheets.Indent},
		Columns:      views.PendingIndentColumns,
		SearchFields: []string{"product", "vendorName", "paymentTerm", "specifications", "firmNameMatch"},
		View:         func(src views.Source, user models.User) any { return views.PendingIndents(src, user) },
		Counter:      count(sheets.Indent, views.AwaitingPODecision),
	},
	{
		Path: "pending-poss", Name: "Pending PO", GateKey: "pendingPo",
		Sheets:       []sheets.SheetName{sheets.Indent},
		Columns:      indentColumns(views.Column{Key: "pendingPoQty", Header: "Pending PO Qty"}, views.Column{Key: "approvedVendorName", Header: "Vendor Name"}),
		SearchFields: indentSearch,
		View:         stage(sheets.Indent, views.AwaitingPO),
		Counter:      count(sheets.Indent, views.AwaitingPO),
	},
	{Path: "create-po", Name: "Create PO", GateKey: "createPo"},
	{
		Path: "po-history", Name: "PO History", GateKey: "ordersView",
		Sheets:       []sheets.SheetName{sheets.POMaster, sheets.Indent, sheets.Received},
		Columns:      views.POHistoryColumns,
		SearchFields: []string{"poNumber", "vendorName", "status"},
		View:         func(src views.Source, user models.User) any { return views.POHistory(src, user) },
		Counter: func(src views.Source) int {
			return views.DistinctPONumbers(src.Snapshot(sheets.POMaster))
		},
	},
	{
		Path: "get-lift", Name: "Lifting", GateKey: "ordersView",
		Sheets:       []sheets.SheetName{sheets.Indent},
		Columns:      indentColumns(planned("5")),
		SearchFields: indentSearch,
		View:         stage(sheets.Indent, views.AwaitingLift),
		Counter:      count(sheets.Indent, views.AwaitingLift),
	},
	{
		Path: "store-in", Name: "Store In", GateKey: "storeIn",
		Sheets:       []sheets.SheetName{sheets.Indent},
		Columns:      indentColumns(planned("6")),
		SearchFields: indentSearch,
		View:         stage(sheets.Indent, views.AwaitingStoreIn),
		Counter:      count(sheets.Indent, views.AwaitingStoreIn),
	},
	{
		Path: "Full-Kiting", Name: "Freight Payment", GateKey: "fullKiting",
		Sheets:  []sheets.SheetName{sheets.Fullkitting},
		View:    stage(sheets.Fullkitting, views.AwaitingFreightPayment),
		Counter: count(sheets.Fullkitting, views.AwaitingFreightPayment),
	},
	{
		Path: "Make-Payment", Name: "Make Payment", GateKey: "makePayment",
		Sheets:       []sheets.SheetName{sheets.Indent, sheets.PaymentHistory, sheets.StoreIn},
		Columns:      views.MakePaymentColumns,
		SearchFields: []string{"indentNo", "billNo", "vendorName", "productName", "firmNameMatch"},
		View:         func(src views.Source, user models.User) any { return views.MakePayment(src, user) },
		Counter: func(src views.Source) int {
			paid := views.PaidIndents(src.Snapshot(sheets.PaymentHistory))
			return views.Count(src.Snapshot(sheets.Indent), views.AwaitingPayment(paid))
		},
	},
	{
		Path: "Payment-Status", Name: "Payment Status",
		Sheets:       []sheets.SheetName{sheets.PaymentHistory},
		Columns:      views.PaymentStatusColumns,
		SearchFields: []string{"apPaymentNumber", "uniqueNumber", "fmsName", "payTo", "remarks"},
		View:         func(src views.Source, user models.User) any { return views.PaymentStatus(src, user) },
	},
	{
		Path: "Quality-Check-In-Received-Item", Name: "Reject For GRN", GateKey: "insteadOfQualityCheckInReceivedItem",
		Sheets:       []sheets.SheetName{sheets.StoreIn},
		Columns:      indentNoColumns("7"),
		SearchFields: storeInSearch,
		View:         stage(sheets.StoreIn, views.AwaitingGRNDecision),
		Counter:      count(sheets.StoreIn, views.AwaitingGRNDecision),
	},
	{
		Path: "Send-Debit-Note", Name: "Send Debit Note", GateKey: "sendDebitNote",
		Sheets:       []sheets.SheetName{sheets.StoreIn},
		Columns:      indentNoColumns("9"),
		SearchFields: storeInSearch,
		View:         stage(sheets.StoreIn, views.AwaitingDebitNote),
		Counter:      count(sheets.StoreIn, views.AwaitingDebitNote),
	},
	tallyRoute("audit-data", "Audit Data", "auditData", "1", views.AwaitingAudit),
	tallyRoute("rectify-the-mistake", "Rectify the mistake", "rectifyTheMistake", "2", views.AwaitingRectification),
	tallyRoute("reaudit-data", "Reaudit Data", "reauditData", "3", views.AwaitingReaudit),
	tallyRoute("take-entry-by-tally", "Take Entry By Tally", "takeEntryByTelly", "4", views.AwaitingTallyEntry),
	tallyRoute("AgainAuditing", "Again Auditing", "againAuditing", "5", views.AwaitingReauditing),
	{
		Path: "Bill-Not-Received", Name: "Bill Not Received", GateKey: "billNotReceived",
		Sheets:       []sheets.SheetName{sheets.StoreIn},
		Columns:      views.BillNotReceivedColumns,
		SearchFields: []string{"liftNumber", "indentNo", "poNumber", "vendorName", "productName", "billNo"},
		View:         func(src views.Source, user models.User) any { return views.BillNotReceived(src, user) },
		Counter:      count(sheets.StoreIn, views.AwaitingBill),
	},
	{
		Path: "DBforPc", Name: "DB For PC", GateKey: "dbForPc",
		Sheets:       []sheets.SheetName{sheets.PCReport},
		Columns:      views.PCReportColumns,
		SearchFields: []string{"stage", "firmName", "totalPending", "totalComplete"},
		View:         func(src views.Source, user models.User) any { return views.PCReport(src, user) },
	},
	{Path: "administration", Name: "Adminstration", GateKey: "administrate"},
	{Path: "training-video", Name: "Training Video"},
	{Path: "license", Name: "License"},
}

func tallyRoute(path, name, gateKey, n string, p views.Predicate) Route {
	return Route{
		Path: path, Name: name, GateKey: gateKey,
		Sheets:       []sheets.SheetName{sheets.TallyEntry},
		Columns:      indentNoColumns(n),
		SearchFields: tallySearch,
		View:         stage(sheets.TallyEntry, p),
		Counter:      count(sheets.TallyEntry, p),
	}
}

// Table returns every route in menu order.
func Table() []Route {
	return append([]Route(nil), table...)
}

// Visible returns the routes the user's permissions open, in menu order.
func Visible(user models.User) []Route {
	out := make([]Route, 0, len(table))
	for _, r := range table {
		if user.Can(r.GateKey) {
			out = append(out, r)
		}
	}
	return out
}

// Lookup finds a route by path. Paths are matched exactly.
func Lookup(path string) (Route, bool) {
	for _, r := range table {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Badge is a visible route with its current count.
type Badge struct {
	Route
	Count int `json:"count"`
}

func Badges(src views.Source, user models.User) []Badge {
	visible := Visible(user)
	out := make([]Badge, 0, len(visible))
	for _, r := range visible {
		out = append(out, Badge{Route: r, Count: r.Count(src)})
	}
	return out
}
