package parse

import "strings"

// DefaultSymbolAliases maps renamed or inconsistently published tickers to
// their canonical form. The exchange renames listings now and then; adding
// the alias here keeps new rows joining the old history without ever
// reprocessing stored data.
func DefaultSymbolAliases() map[string]string {
	return map[string]string{
		"VERTEX-ETF": "VERTEX ETF",
		"IEACLC-ETF": "IEACLC ETF",
		"ITRUST ETF": "IEACLC ETF",
	}
}

// SymbolNormalizer resolves published ticker strings to canonical symbols.
// The alias map is injected at construction, not global state.
type SymbolNormalizer struct {
	aliases map[string]string
}

func NewSymbolNormalizer(aliases map[string]string) *SymbolNormalizer {
	if aliases == nil {
		aliases = DefaultSymbolAliases()
	}
	return &SymbolNormalizer{aliases: aliases}
}

// Normalize trims the raw ticker and resolves it through the alias map.
// Unmapped input comes back trimmed but otherwise untouched.
func (n *SymbolNormalizer) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if canonical, ok := n.aliases[s]; ok {
		return canonical
	}
	return s
}
