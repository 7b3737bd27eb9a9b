package sheets

import (
	"bytes"
	"encoding/json"
)

type Vendor struct {
	VendorName string `json:"vendorName"`
	Gstin      string `json:"gstin"`
	Address    string `json:"address"`
	Email      string `json:"email"`
}

type CompanyDetails struct {
	CompanyName        string `json:"companyName"`
	CompanyAddress     string `json:"companyAddress"`
	DestinationAddress string `json:"destinationAddress"`
}

// MasterSheet is the lookup bundle decoded from MASTER's column arrays.
type MasterSheet struct {
	Vendors        []Vendor                  `json:"vendors"`
	VendorNames    []string                  `json:"vendorNames"`
	Departments    []string                  `json:"departments"`
	PaymentTerms   []string                  `json:"paymentTerms"`
	GroupHeads     map[string][]string       `json:"groupHeads"`
	DefaultTerms   []string                  `json:"defaultTerms"`
	Uoms           []string                  `json:"uoms"`
	Firms          []string                  `json:"firms"`
	FmsNames       []string                  `json:"fmsNames"`
	FirmCompanyMap map[string]CompanyDetails `json:"firmCompanyMap"`

	// Company columns are passed through untouched; they hold one value per firm row.
	CompanyPan         []string `json:"companyPan"`
	CompanyName        []string `json:"companyName"`
	CompanyAddress     []string `json:"companyAddress"`
	CompanyPhone       []string `json:"companyPhone"`
	CompanyGstin       []string `json:"companyGstin"`
	BillingAddress     []string `json:"billingAddress"`
	DestinationAddress []string `json:"destinationAddress"`
	Firmsnames         []string `json:"firmsnames"`
}

// orderedSet keeps insertion order and drops repeats.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}, items: []string{}}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

// masterColumns indexes MASTER's parallel arrays. Reads past the end of a
// short column yield nil, so ragged input never fails.
type masterColumns map[string][]any

func (mc masterColumns) at(col string, i int) any {
	vals := mc[col]
	if i < 0 || i >= len(vals) {
		return nil
	}
	return vals[i]
}

func (mc masterColumns) text(col string, i int) string {
	return cellString(mc.at(col, i))
}

func (mc masterColumns) present(col string, i int) bool {
	return truthy(mc.at(col, i))
}

func (mc masterColumns) strings(col string) []string {
	vals, ok := mc[col]
	if !ok {
		return nil
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = cellString(v)
	}
	return out
}

func (mc masterColumns) maxLen() int {
	n := 0
	for _, vals := range mc {
		if len(vals) > n {
			n = len(vals)
		}
	}
	return n
}

func decodeMasterOptions(raw json.RawMessage) (*MasterSheet, error) {
	options := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&options); err != nil {
			return nil, err
		}
	}
	return AggregateMaster(options), nil
}

// AggregateMaster flattens MASTER's column arrays in one pass over
// 0..max(column length). A scalar value is treated as a one-element column.
func AggregateMaster(options map[string]any) *MasterSheet {
	cols := masterColumns{}
	for k, v := range options {
		switch t := v.(type) {
		case []any:
			cols[k] = t
		case nil:
			cols[k] = nil
		default:
			cols[k] = []any{t}
		}
	}

	vendors := []Vendor{}
	groupHeads := map[string]*orderedSet{}
	groupOrder := []string{}
	departments := newOrderedSet()
	paymentTerms := newOrderedSet()
	defaultTerms := newOrderedSet()
	uoms := newOrderedSet()
	firms := newOrderedSet()
	fmsNames := newOrderedSet()
	firmCompany := map[string]CompanyDetails{}
	lookupSets := []struct {
		col string
		set *orderedSet
	}{
		{"department", departments},
		{"paymentTerm", paymentTerms},
		{"defaultTerms", defaultTerms},
		{"uom", uoms},
		{"firmName", firms},
		{"fmsName", fmsNames},
	}

	length := cols.maxLen()
	for i := 0; i < length; i++ {
		if cols.present("vendorName", i) {
			vendors = append(vendors, Vendor{
				VendorName: cols.text("vendorName", i),
				Gstin:      cols.text("vendorGstin", i),
				Address:    cols.text("vendorAddress", i),
				Email:      cols.text("vendorEmail", i),
			})
		}

		for _, ls := range lookupSets {
			if cols.present(ls.col, i) {
				ls.set.add(cols.text(ls.col, i))
			}
		}

		if cols.present("firmName", i) && cols.present("companyName", i) &&
			cols.present("companyAddress", i) && cols.present("destinationAddress", i) {
			firmCompany[cols.text("firmName", i)] = CompanyDetails{
				CompanyName:        cols.text("companyName", i),
				CompanyAddress:     cols.text("companyAddress", i),
				DestinationAddress: cols.text("destinationAddress", i),
			}
		}

		if cols.present("groupHead", i) && cols.present("itemName", i) {
			group := cols.text("groupHead", i)
			set, ok := groupHeads[group]
			if !ok {
				set = newOrderedSet()
				groupHeads[group] = set
				groupOrder = append(groupOrder, group)
			}
			set.add(cols.text("itemName", i))
		}
	}

	vendorNames := make([]string, len(vendors))
	for i, v := range vendors {
		vendorNames[i] = v.VendorName
	}
	groups := make(map[string][]string, len(groupOrder))
	for _, g := range groupOrder {
		groups[g] = groupHeads[g].items
	}
	firmsnames := cols.strings("firmsnames")
	if firmsnames == nil {
		firmsnames = []string{}
	}

	return &MasterSheet{
		Vendors:            vendors,
		VendorNames:        vendorNames,
		Departments:        departments.items,
		PaymentTerms:       paymentTerms.items,
		GroupHeads:         groups,
		DefaultTerms:       defaultTerms.items,
		Uoms:               uoms.items,
		Firms:              firms.items,
		FmsNames:           fmsNames.items,
		FirmCompanyMap:     firmCompany,
		CompanyPan:         cols.strings("companyPan"),
		CompanyName:        cols.strings("companyName"),
		CompanyAddress:     cols.strings("companyAddress"),
		CompanyPhone:       cols.strings("companyPhone"),
		CompanyGstin:       cols.strings("companyGstin"),
		BillingAddress:     cols.strings("billingAddress"),
		DestinationAddress: cols.strings("destinationAddress"),
		Firmsnames:         firmsnames,
	}
}
