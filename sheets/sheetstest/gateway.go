// Package sheetstest provides an in-memory spreadsheet gateway for tests.
package sheetstest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

type Upload struct {
	FileName   string
	MimeType   string
	FolderID   string
	UploadType string
	Email      string
	Data       []byte
}

type Post struct {
	Action string
	Sheet  string
	Rows   []map[string]any
}

// Gateway answers the gateway protocol from rows held in memory. Updates are
// applied by rowIndex so a later fetch observes them.
type Gateway struct {
	mu       sync.Mutex
	rows     map[string][]map[string]any
	master   map[string]any
	posts    []Post
	uploads  []Upload
	failPost string
}

func New() *Gateway {
	return &Gateway{rows: map[string][]map[string]any{}}
}

// NewServer starts an httptest server for g and returns its base URL.
func NewServer(g *Gateway) (*httptest.Server, string) {
	srv := httptest.NewServer(g)
	return srv, srv.URL + "/exec"
}

func (g *Gateway) SetRows(sheet string, rows []map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows[sheet] = rows
}

func (g *Gateway) SetMaster(options map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.master = options
}

// FailPosts makes every later mutation answer success:false with reason.
func (g *Gateway) FailPosts(reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failPost = reason
}

func (g *Gateway) Posts() []Post {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Post(nil), g.posts...)
}

func (g *Gateway) Uploads() []Upload {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Upload(nil), g.uploads...)
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		g.serveFetch(w, r)
	case http.MethodPost:
		g.servePost(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (g *Gateway) serveFetch(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	name := r.URL.Query().Get("sheetName")
	if name == "MASTER" {
		writeJSON(w, map[string]any{"success": true, "options": g.master})
		return
	}
	rows, ok := g.rows[name]
	if !ok {
		writeJSON(w, map[string]any{"success": false, "error": "Sheet not found: " + name})
		return
	}
	writeJSON(w, map[string]any{"success": true, "rows": rows})
}

func (g *Gateway) servePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	action := r.FormValue("action")
	if action == "upload" {
		data, err := base64.StdEncoding.DecodeString(r.FormValue("fileData"))
		if err != nil {
			writeJSON(w, map[string]any{"success": false, "error": "bad fileData"})
			return
		}
		up := Upload{
			FileName:   r.FormValue("fileName"),
			MimeType:   r.FormValue("mimeType"),
			FolderID:   r.FormValue("folderId"),
			UploadType: r.FormValue("uploadType"),
			Email:      r.FormValue("email"),
			Data:       data,
		}
		g.uploads = append(g.uploads, up)
		writeJSON(w, map[string]any{"success": true, "fileUrl": "https://files.example/" + up.FolderID + "/" + up.FileName})
		return
	}

	if g.failPost != "" {
		writeJSON(w, map[string]any{"success": false, "error": g.failPost})
		return
	}

	sheet := r.FormValue("sheetName")
	var rows []map[string]any
	dec := json.NewDecoder(bytes.NewReader([]byte(r.FormValue("rows"))))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		writeJSON(w, map[string]any{"success": false, "error": "rows is not a JSON array"})
		return
	}
	g.posts = append(g.posts, Post{Action: action, Sheet: sheet, Rows: rows})

	switch action {
	case "insert":
		for _, row := range rows {
			row["rowIndex"] = len(g.rows[sheet]) + 2
			g.rows[sheet] = append(g.rows[sheet], row)
		}
	case "update":
		for _, patch := range rows {
			target := g.find(sheet, patch["rowIndex"])
			if target == nil {
				writeJSON(w, map[string]any{"success": false, "message": "row not found"})
				return
			}
			for k, v := range patch {
				if k != "sheetName" {
					target[k] = v
				}
			}
		}
	case "delete":
		for _, patch := range rows {
			kept := g.rows[sheet][:0]
			for _, row := range g.rows[sheet] {
				if fmt.Sprint(row["rowIndex"]) != fmt.Sprint(patch["rowIndex"]) {
					kept = append(kept, row)
				}
			}
			g.rows[sheet] = kept
		}
	default:
		writeJSON(w, map[string]any{"success": false, "error": "unknown action " + action})
		return
	}
	writeJSON(w, map[string]any{"success": true})
}

func (g *Gateway) find(sheet string, rowIndex any) map[string]any {
	want := fmt.Sprint(rowIndex)
	for _, row := range g.rows[sheet] {
		if fmt.Sprint(row["rowIndex"]) == want {
			return row
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
