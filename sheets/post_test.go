package sheets

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestPostToSheet_SendsForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm error: %v", err)
		}
		if r.FormValue("action") != "update" || r.FormValue("sheetName") != "INDENT" {
			t.Fatalf("unexpected form %v", r.MultipartForm.Value)
		}
		var rows []map[string]any
		if err := json.Unmarshal([]byte(r.FormValue("rows")), &rows); err != nil {
			t.Fatalf("rows field is not JSON: %v", err)
		}
		if len(rows) != 1 || rows[0]["poRequred"] != "Yes" {
			t.Fatalf("unexpected rows %v", rows)
		}
		_, _ = io.WriteString(w, `{"success":true,"rowIndex":14}`)
	})

	resp, err := c.PostToSheet(context.Background(), []Row{{"rowIndex": 14, "poRequred": "Yes"}}, ActionUpdate, Indent)
	if err != nil {
		t.Fatalf("PostToSheet error: %v", err)
	}
	if !resp.Success() {
		t.Fatalf("expected success response")
	}
	if resp["rowIndex"].(json.Number).String() != "14" {
		t.Fatalf("payload should be passed through, got %v", resp)
	}
}

func TestPostToSheet_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{"gateway error", http.StatusOK, `{"success":false,"error":"Row not found"}`, "Row not found"},
		{"gateway message", http.StatusOK, `{"success":false,"message":"Locked"}`, "Locked"},
		{"generic", http.StatusOK, `{"success":false}`, "Something went wrong in the API"},
		{"not json", http.StatusOK, `Moved`, "unparseable response"},
		{"http error", http.StatusBadGateway, ``, "Failed to delete data"},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, tc.body)
		})
		_, err := c.PostToSheet(context.Background(), []Row{{"rowIndex": 3}}, ActionDelete, StoreIn)
		var pe *PostError
		if !errors.As(err, &pe) {
			t.Fatalf("%s: expected *PostError, got %v", tc.name, err)
		}
		if pe.Reason != tc.reason {
			t.Fatalf("%s: expected reason %q, got %q", tc.name, tc.reason, pe.Reason)
		}
	}
}

func TestPostToSheet_RejectsBadInput(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("gateway should not be called")
	})
	cases := []struct {
		name   string
		rows   []Row
		action Action
		sheet  SheetName
	}{
		{"empty rows", nil, ActionInsert, Indent},
		{"bad action", []Row{{"a": 1}}, Action("upsert"), Indent},
		{"master", []Row{{"a": 1}}, ActionInsert, Master},
	}
	for _, tc := range cases {
		_, err := c.PostToSheet(context.Background(), tc.rows, tc.action, tc.sheet)
		var pe *PostError
		if !errors.As(err, &pe) {
			t.Fatalf("%s: expected *PostError, got %v", tc.name, err)
		}
	}
}

func TestUploadFile_EncodesContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm error: %v", err)
		}
		if r.FormValue("action") != "upload" || r.FormValue("uploadType") != "upload" {
			t.Fatalf("unexpected form %v", r.MultipartForm.Value)
		}
		data, err := base64.StdEncoding.DecodeString(r.FormValue("fileData"))
		if err != nil || string(data) != "bill-bytes" {
			t.Fatalf("fileData should be plain base64 of content, got %q", r.FormValue("fileData"))
		}
		if r.FormValue("folderId") != "folder-1" || r.FormValue("fileName") != "bill.png" {
			t.Fatalf("unexpected metadata %v", r.MultipartForm.Value)
		}
		if _, ok := r.MultipartForm.Value["email"]; ok {
			t.Fatalf("email fields must not be sent for plain uploads")
		}
		_, _ = io.WriteString(w, `{"success":true,"fileUrl":"https://drive.example/f/1"}`)
	})

	url, err := c.UploadFile(context.Background(), UploadRequest{
		FileName: "bill.png",
		MimeType: "image/png",
		FolderID: "folder-1",
		Email:    "ignored@example.com",
	}, strings.NewReader("bill-bytes"))
	if err != nil {
		t.Fatalf("UploadFile error: %v", err)
	}
	if url != "https://drive.example/f/1" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestUploadFile_EmailDefaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm error: %v", err)
		}
		if r.FormValue("email") != "vendor@example.com" {
			t.Fatalf("expected email field, got %v", r.MultipartForm.Value)
		}
		if r.FormValue("emailSubject") != "Purchase Order" || r.FormValue("emailBody") != "Please find attached PO." {
			t.Fatalf("expected default subject/body, got %v", r.MultipartForm.Value)
		}
		_, _ = io.WriteString(w, `{"success":true,"fileUrl":"https://drive.example/po.pdf"}`)
	})

	_, err := c.UploadFile(context.Background(), UploadRequest{
		FileName:   "po.pdf",
		MimeType:   "application/pdf",
		FolderID:   "po-folder",
		UploadType: UploadTypeEmail,
		Email:      "vendor@example.com",
	}, strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("UploadFile error: %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestUploadFile_Failures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false}`)
	})
	req := UploadRequest{FileName: "a.png", MimeType: "image/png", FolderID: "f"}

	var ue *UploadError
	if _, err := c.UploadFile(context.Background(), req, failingReader{}); !errors.As(err, &ue) || ue.Reason != "failed to read file" {
		t.Fatalf("expected read failure, got %v", err)
	}
	if _, err := c.UploadFile(context.Background(), req, strings.NewReader("x")); !errors.As(err, &ue) || ue.Reason != "Failed to upload data" {
		t.Fatalf("expected rejection, got %v", err)
	}
	bad := req
	bad.FolderID = ""
	if _, err := c.UploadFile(context.Background(), bad, strings.NewReader("x")); !errors.As(err, &ue) || ue.Reason != "invalid upload request" {
		t.Fatalf("expected validation failure, got %v", err)
	}
}
