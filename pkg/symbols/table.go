// Package symbols resolves free-text entity references (company names,
// tickers, FX pair aliases) to canonical trading symbols.
package symbols

import (
	_ "embed"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/interop-desk/mcpgate/pkg/apperrors"
)

//go:embed data.yaml
var rawData []byte

// Company is one entry of the display-name/ticker mapping.
type Company struct {
	Name   string `yaml:"name" json:"name"`
	Ticker string `yaml:"ticker" json:"ticker"`
}

// FXAlias maps a colloquial FX reference to its canonical pair.
type FXAlias struct {
	Alias string `yaml:"alias" json:"alias"`
	Pair  string `yaml:"pair" json:"pair"`
}

type tableData struct {
	Companies []Company `yaml:"companies"`
	FX        []FXAlias `yaml:"fx"`
}

// Table is the immutable symbol mapping table. Lookups never fail with an
// error; a miss is reported through the ok return.
type Table struct {
	companies []Company
	fx        []FXAlias
	canonical map[string]string
}

// Load parses a mapping table from yaml.
func Load(data []byte) (*Table, error) {
	var parsed tableData
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "failed to parse symbol table", err)
	}
	t := &Table{
		companies: parsed.Companies,
		fx:        parsed.FX,
		canonical: make(map[string]string, 2*len(parsed.Companies)+len(parsed.FX)),
	}
	for _, c := range parsed.Companies {
		t.canonical[strings.ToUpper(c.Name)] = c.Ticker
		t.canonical[strings.ToUpper(c.Ticker)] = c.Ticker
	}
	for _, fx := range parsed.FX {
		t.canonical[strings.ToUpper(fx.Alias)] = fx.Pair
	}
	return t, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table built from the embedded reference data.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Load(rawData)
		if err != nil {
			// The embedded data ships with the binary; failing to parse
			// it is a build defect, not a runtime condition.
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// Resolve maps input (display name, ticker, or FX alias) to a canonical
// symbol, ignoring case and surrounding whitespace.
func (t *Table) Resolve(input string) (string, bool) {
	symbol, ok := t.canonical[strings.ToUpper(strings.TrimSpace(input))]
	return symbol, ok
}

// FindCompany returns the first company, in table order, whose display name
// contains input or whose ticker equals it. Matching is case-insensitive;
// no ranking by match quality is performed.
func (t *Table) FindCompany(input string) (Company, bool) {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return Company{}, false
	}
	for _, c := range t.companies {
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.ToLower(c.Ticker) == needle {
			return c, true
		}
	}
	return Company{}, false
}

// Companies returns the mapping entries in table order.
func (t *Table) Companies() []Company {
	out := make([]Company, len(t.companies))
	copy(out, t.companies)
	return out
}

// FXAliases returns the FX alias entries in table order.
func (t *Table) FXAliases() []FXAlias {
	out := make([]FXAlias, len(t.fx))
	copy(out, t.fx)
	return out
}
