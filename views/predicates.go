package views

import (
	"strconv"

	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
)

// Predicate decides whether a row is waiting at some workflow step. Views and
// route counters share these so a badge always matches its table.
type Predicate func(sheets.Row) bool

// PendingAt reports whether a step is due and not yet done: the planned cell
// holds text after trimming and the actual cell is blank or missing.
func PendingAt(planned, actual string) Predicate {
	return func(r sheets.Row) bool {
		return r.Present(planned) && !r.Present(actual)
	}
}

// PendingAtStage is PendingAt on the numbered plannedN / actualN pair.
func PendingAtStage(n int) Predicate {
	s := strconv.Itoa(n)
	return PendingAt("planned"+s, "actual"+s)
}

// INDENT

// AwaitingApproval: stage 1 is due and no vendor type has been chosen.
func AwaitingApproval(r sheets.Row) bool {
	return r.Present("planned1") && !r.Present("vendorType")
}

func AwaitingVendorRate(r sheets.Row) bool {
	return PendingAtStage(2)(r)
}

func AwaitingThreePartyApproval(r sheets.Row) bool {
	return PendingAtStage(3)(r) && r.Trimmed("vendorType") == "Three Party"
}

// AwaitingPODecision: an approved, still pending indent with no answer yet to "is a PO required".
func AwaitingPODecision(r sheets.Row) bool {
	if r.Trimmed("status") != "Pending" || !r.Present("approvedVendorName") {
		return false
	}
	answer := r.Trimmed("poRequred")
	return answer == "" || answer == "undefined"
}

// AwaitingPO: a PO is required and quantity is still open against an approved vendor.
func AwaitingPO(r sheets.Row) bool {
	return r.Trimmed("poRequred") == "Yes" &&
		r.Decimal("pendingPoQty").IsPositive() &&
		r.Present("approvedVendorName")
}

func AwaitingLift(r sheets.Row) bool {
	return r.Trimmed("liftingStatus") == "Pending" && r.Present("planned5")
}

func AwaitingStoreIn(r sheets.Row) bool {
	return PendingAtStage(6)(r)
}

// AwaitingPayment needs the set of already paid indent numbers from PAYMENT HISTORY.
func AwaitingPayment(paid map[string]struct{}) Predicate {
	return func(r sheets.Row) bool {
		if !r.Present("planned7") {
			return false
		}
		_, done := paid[r.Trimmed("indentNumber")]
		return !done
	}
}

// STORE IN

func AwaitingGRNDecision(r sheets.Row) bool {
	return PendingAtStage(7)(r)
}

func AwaitingDebitNote(r sheets.Row) bool {
	return PendingAtStage(9)(r)
}

func AwaitingBill(r sheets.Row) bool {
	return PendingAtStage(11)(r)
}

// ISSUE

func AwaitingIssue(r sheets.Row) bool {
	return PendingAtStage(1)(r)
}

// TALLY ENTRY, stages 1 to 5.

func AwaitingAudit(r sheets.Row) bool {
	return PendingAtStage(1)(r)
}

func AwaitingRectification(r sheets.Row) bool {
	return PendingAtStage(2)(r)
}

func AwaitingReaudit(r sheets.Row) bool {
	return PendingAtStage(3)(r)
}

func AwaitingTallyEntry(r sheets.Row) bool {
	return PendingAtStage(4)(r)
}

func AwaitingReauditing(r sheets.Row) bool {
	return PendingAtStage(5)(r)
}

// Fullkitting carries one unnumbered planned/actual pair.
func AwaitingFreightPayment(r sheets.Row) bool {
	return PendingAt("planned", "actual")(r)
}

// Count applies p to rows. A nil snapshot counts as zero.
func Count(rows []sheets.Row, p Predicate) int {
	n := 0
	for _, r := range rows {
		if p(r) {
			n++
		}
	}
	return n
}
