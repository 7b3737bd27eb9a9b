package sheets

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/indent_tracker/utils"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/exec", 0, quietLogger())
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c
}

func TestFetchSheet_DropsBlankTimestampRows(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", r.Method)
		}
		if got := r.URL.Query().Get("sheetName"); got != "STORE IN" {
			t.Fatalf("expected sheetName=STORE IN, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"rows":[
			{"timestamp":"2024-01-02","indentNo":"IND-001","rowIndex":2},
			{"timestamp":"","indentNo":""},
			{"indentNo":"IND-009","rowIndex":11}
		]}`)
	})

	res, err := c.FetchSheet(context.Background(), StoreIn)
	if err != nil {
		t.Fatalf("FetchSheet error: %v", err)
	}
	if res.Master != nil {
		t.Fatalf("expected no master aggregate for STORE IN")
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
	if res.Rows[0].String("indentNo") != "IND-001" || res.Rows[0].Int("rowIndex") != 2 {
		t.Fatalf("unexpected first row %v", res.Rows[0])
	}
	if res.Rows[1].String("indentNo") != "IND-009" {
		t.Fatalf("row without timestamp column should be kept, got %v", res.Rows[1])
	}
}

func TestFetchSheet_NormalizesHeaderVariants(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"rows":[
			{"Timestamp":"2024-02-01","Unique Number":"IND-1\t","Amount To Be Paid":"1,500","Planned 2":"2024-02-03"}
		]}`)
	})

	res, err := c.FetchSheet(context.Background(), PaymentHistory)
	if err != nil {
		t.Fatalf("FetchSheet error: %v", err)
	}
	row := res.Rows[0]
	if row.String("timestamp") != "2024-02-01" {
		t.Fatalf("expected timestamp from Timestamp, got %q", row.String("timestamp"))
	}
	if row.String("uniqueNumber") != "IND-1\t" {
		t.Fatalf("expected uniqueNumber from Unique Number, got %q", row.String("uniqueNumber"))
	}
	if row.String("amountToBePaid") != "1,500" {
		t.Fatalf("expected amountToBePaid, got %q", row.String("amountToBePaid"))
	}
	if row.String("planned2") != "2024-02-03" {
		t.Fatalf("expected global alias for Planned 2, got %q", row.String("planned2"))
	}
	for _, k := range []string{"Timestamp", "Unique Number", "Amount To Be Paid", "Planned 2"} {
		if row.Has(k) {
			t.Fatalf("variant key %q should be removed", k)
		}
	}
}

func TestFetchSheet_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{"http error", http.StatusInternalServerError, `oops`, "Failed to fetch data"},
		{"success false", http.StatusOK, `{"success":false}`, "Something went wrong when parsing data"},
		{"gateway message", http.StatusOK, `{"success":false,"error":"Sheet not found"}`, "Sheet not found"},
		{"not json", http.StatusOK, `<html>login</html>`, "unreadable response"},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, tc.body)
		})
		_, err := c.FetchSheet(context.Background(), Indent)
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("%s: expected *FetchError, got %v", tc.name, err)
		}
		if fe.Sheet != Indent {
			t.Fatalf("%s: expected sheet INDENT, got %q", tc.name, fe.Sheet)
		}
		if fe.Reason != tc.reason {
			t.Fatalf("%s: expected reason %q, got %q", tc.name, tc.reason, fe.Reason)
		}
	}
}

func TestFetchAll_KeepsGoingPastFailures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("sheetName") {
		case "INDENT":
			_, _ = io.WriteString(w, `{"success":false,"error":"Sheet not found"}`)
		case "MASTER":
			_, _ = io.WriteString(w, `{"success":true,"options":{"vendorName":["Sharma"]}}`)
		default:
			_, _ = io.WriteString(w, `{"success":true,"rows":[{"timestamp":"2024-01-02","poNumber":"PO-1"}]}`)
		}
	})

	got, err := c.FetchAll(context.Background(), []SheetName{Indent, Received, Master})
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Sheet != Indent {
		t.Fatalf("expected the INDENT failure, got %v", err)
	}
	if _, ok := got[Indent]; ok || len(got) != 2 {
		t.Fatalf("expected RECEIVED and MASTER only, got %v", got)
	}
	if len(got[Received].Rows) != 1 || got[Master].Master == nil || len(got[Master].Master.Vendors) != 1 {
		t.Fatalf("unexpected results %+v", got)
	}

	if _, err := c.FetchAll(context.Background(), []SheetName{Received}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestFetchSheet_UnknownSheetSkipsRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	_, err := c.FetchSheet(context.Background(), SheetName("USERS"))
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if called {
		t.Fatalf("gateway should not be called for an unknown sheet")
	}
}

func TestFetchSheet_Master(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"options":{
			"vendorName":["A","","C"],
			"vendorGstin":["G1","G2"],
			"uom":["Kg","Nos","Kg"]
		}}`)
	})

	res, err := c.FetchSheet(context.Background(), Master)
	if err != nil {
		t.Fatalf("FetchSheet error: %v", err)
	}
	if res.Master == nil {
		t.Fatalf("expected master aggregate")
	}
	if len(res.Master.Vendors) != 2 {
		t.Fatalf("expected 2 vendors, got %+v", res.Master.Vendors)
	}
	if len(res.Master.Uoms) != 2 {
		t.Fatalf("expected deduplicated uoms, got %v", res.Master.Uoms)
	}
}

func TestFetchSheet_ForwardsCorrelationId(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Correlation-Id")
		_, _ = io.WriteString(w, `{"success":true,"rows":[]}`)
	})
	ctx := utils.SetCorrelationIdInContext(context.Background(), "cid-123")
	if _, err := c.FetchSheet(ctx, Issue); err != nil {
		t.Fatalf("FetchSheet error: %v", err)
	}
	if got != "cid-123" {
		t.Fatalf("expected correlation id header, got %q", got)
	}
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	if _, err := NewClient("/exec", 0, nil); err == nil {
		t.Fatalf("expected error for relative url")
	}
	if _, err := NewClient("  ", 0, nil); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
