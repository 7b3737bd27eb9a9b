package sheets

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SheetName names a tab exposed by the gateway.
type SheetName string

const (
	Indent         SheetName = "INDENT"
	StoreIn        SheetName = "STORE IN"
	Received       SheetName = "RECEIVED"
	POMaster       SheetName = "PO MASTER"
	Inventory      SheetName = "INVENTORY"
	Master         SheetName = "MASTER"
	Issue          SheetName = "ISSUE"
	TallyEntry     SheetName = "TALLY ENTRY"
	PCReport       SheetName = "PC REPORT"
	Fullkitting    SheetName = "Fullkitting"
	PaymentHistory SheetName = "PAYMENT HISTORY"
)

// All lists every recognized sheet in refresh order.
var All = []SheetName{
	Master,
	Received,
	Indent,
	POMaster,
	Inventory,
	StoreIn,
	Issue,
	TallyEntry,
	PCReport,
	Fullkitting,
	PaymentHistory,
}

func (s SheetName) Valid() bool {
	for _, n := range All {
		if n == s {
			return true
		}
	}
	return false
}

func (s SheetName) String() string { return string(s) }

// ParseSheetName matches a sheet name exactly as the gateway spells it.
func ParseSheetName(raw string) (SheetName, error) {
	s := SheetName(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown sheet %q", raw)
	}
	return s, nil
}

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

func (a Action) Valid() bool {
	return a == ActionInsert || a == ActionUpdate || a == ActionDelete
}

// Row is one record of a sheet keyed by camelCase header. Numbers stay
// json.Number so row indexes and amounts keep their literal text.
type Row map[string]any

func (r Row) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// String renders the cell as text. Missing and null cells are "".
func (r Row) String(key string) string {
	return cellString(r[key])
}

// Present reports whether the cell holds non-blank text.
func (r Row) Present(key string) bool {
	return strings.TrimSpace(r.String(key)) != ""
}

func (r Row) Trimmed(key string) string {
	return strings.TrimSpace(r.String(key))
}

// Decimal parses the cell as a number, zero when blank or malformed.
func (r Row) Decimal(key string) decimal.Decimal {
	s := strings.ReplaceAll(r.Trimmed(key), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Int parses the cell as an integer, zero when blank or malformed.
func (r Row) Int(key string) int {
	s := r.Trimmed(key)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// truthy follows the gateway's loose notion of "present": null, "", 0 and false are absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}

// PostResponse is the gateway's reply to a mutation, passed through verbatim.
type PostResponse map[string]any

func (p PostResponse) Success() bool {
	b, _ := p["success"].(bool)
	return b
}

type FetchResult struct {
	Rows   []Row
	Master *MasterSheet
}

type fetchEnvelope struct {
	Success bool            `json:"success"`
	Rows    []Row           `json:"rows"`
	Options json.RawMessage `json:"options"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type uploadEnvelope struct {
	Success bool   `json:"success"`
	FileURL string `json:"fileUrl"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
