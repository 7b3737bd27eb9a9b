package sheets

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed header_aliases.yaml
var headerAliasesYAML []byte

const allSheets = "*"

// headerAliases maps sheet -> canonical field -> alternate header spellings.
type headerAliases map[string]map[string][]string

var aliases = mustLoadAliases(headerAliasesYAML)

func mustLoadAliases(raw []byte) headerAliases {
	a, err := loadAliases(raw)
	if err != nil {
		panic(fmt.Sprintf("sheets: bad header alias table: %v", err))
	}
	return a
}

func loadAliases(raw []byte) (headerAliases, error) {
	var a headerAliases
	if err := yaml.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	if a == nil {
		a = headerAliases{}
	}
	return a, nil
}

type aliasRule struct {
	canonical string
	variants  []string
}

// rulesFor merges the global rules with the sheet's own. Sheet rules win on conflict.
func (a headerAliases) rulesFor(sheet SheetName) []aliasRule {
	merged := map[string][]string{}
	for k, v := range a[allSheets] {
		merged[k] = v
	}
	for k, v := range a[string(sheet)] {
		merged[k] = v
	}
	rules := make([]aliasRule, 0, len(merged))
	for k, v := range merged {
		rules = append(rules, aliasRule{canonical: k, variants: v})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].canonical < rules[j].canonical })
	return rules
}

// Normalize folds known header variants into their canonical field. A non-empty
// canonical value is kept, otherwise the first non-empty variant wins. Variant
// keys are removed either way.
func Normalize(sheet SheetName, row Row) Row {
	normalizeRow(aliases.rulesFor(sheet), row)
	return row
}

func normalizeRows(sheet SheetName, rows []Row) {
	rules := aliases.rulesFor(sheet)
	if len(rules) == 0 {
		return
	}
	for _, r := range rows {
		normalizeRow(rules, r)
	}
}

func normalizeRow(rules []aliasRule, row Row) {
	for _, rule := range rules {
		current, hasCanonical := row[rule.canonical]
		filled := hasCanonical && truthy(current)
		sawVariant := false
		for _, v := range rule.variants {
			val, ok := row[v]
			if !ok {
				continue
			}
			sawVariant = true
			if !filled && truthy(val) {
				row[rule.canonical] = val
				filled = true
			}
			delete(row, v)
		}
		if sawVariant && !hasCanonical && !filled {
			row[rule.canonical] = ""
		}
	}
}
