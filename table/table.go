package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"bitbucket.org/mmdatafocus/indent_tracker/views"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Record is one projected row flattened to its JSON keys.
type Record map[string]any

// Records flattens any slice of projections through its JSON encoding, so
// search, sort and export work on the same keys the API returns.
func Records(v any) ([]Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	var out []Record
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

// Text renders a cell for search and export.
func (r Record) Text(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

type Query struct {
	Search string `form:"q"`
	SortBy string `form:"sortBy"`
	Desc   bool   `form:"desc"`
	Limit  int    `form:"limit" binding:"gte=0"`
	Offset int    `form:"offset" binding:"gte=0"`
}

type Page struct {
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	Rows   []Record `json:"rows"`
}

// Apply searches, sorts and pages records. The input slice is not modified.
func Apply(records []Record, searchFields []string, q Query) Page {
	rows := Search(records, searchFields, q.Search)
	if q.SortBy != "" {
		rows = Sort(rows, q.SortBy, q.Desc)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	page := Page{Total: len(rows), Limit: limit, Offset: offset, Rows: []Record{}}
	if offset >= len(rows) {
		return page
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	page.Rows = rows[offset:end]
	return page
}

// Search keeps records where any search field contains term, ignoring case.
// With no fields declared every key is searched.
func Search(records []Record, fields []string, term string) []Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]Record(nil), records...)
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		keys := fields
		if len(keys) == 0 {
			keys = sortedKeys(r)
		}
		for _, k := range keys {
			if strings.Contains(strings.ToLower(r.Text(k)), term) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Sort orders by key: numbers first by value, then text.
func Sort(records []Record, key string, desc bool) []Record {
	out := append([]Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i].Text(key), out[j].Text(key))
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// compare orders every numeric value before every non-numeric one, numbers by
// value and the rest lexically, so the ordering stays transitive on mixed columns.
func compare(a, b string) int {
	fa, numA := number(a)
	fb, numB := number(b)
	switch {
	case numA && numB:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case numA:
		return -1
	case numB:
		return 1
	}
	return strings.Compare(a, b)
}

func number(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Columns derives a column list from the records' keys when a route declares none.
func Columns(records []Record) []views.Column {
	seen := map[string]struct{}{}
	var keys []string
	for _, r := range records {
		for k := range r {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	cols := make([]views.Column, 0, len(keys))
	for _, k := range keys {
		cols = append(cols, views.Column{Key: k, Header: k})
	}
	return cols
}

func sortedKeys(r Record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
