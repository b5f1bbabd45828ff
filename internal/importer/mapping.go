package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// aliases lists header spellings recognised for each field, compared after
// folding case and accents. More specific names come first.
var aliases = map[string][]string{
	"description": {"descricao", "description", "historico", "descr", "nome"},
	"amount":      {"valor", "amount", "montante", "value", "total"},
	"due_date":    {"vencimento", "data de vencimento", "due_date", "due date", "data", "date"},
	"category":    {"categoria", "category"},
	"status":      {"situacao", "status", "pago"},
}

// fold lower-cases s and strips its accents, so "Descrição" matches "descricao".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}

	return strings.ToLower(out)
}

// SuggestMapping proposes a mapping from a header row. Fields with no
// recognisable column are left empty.
func SuggestMapping(header []string) Mapping {
	folded := make(map[string]string, len(header))
	for _, h := range header {
		if f := fold(h); f != "" {
			if _, seen := folded[f]; !seen {
				folded[f] = h
			}
		}
	}

	pick := func(field string) string {
		for _, alias := range aliases[field] {
			if h, ok := folded[alias]; ok {
				return h
			}
		}

		return ""
	}

	return Mapping{
		Description: pick("description"),
		Amount:      pick("amount"),
		DueDate:     pick("due_date"),
		Category:    pick("category"),
		Status:      pick("status"),
	}
}

// columns maps trimmed header names to their index.
type columns map[string]int

func indexHeader(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, seen := cols[name]; name != "" && !seen {
			cols[name] = i
		}
	}

	return cols
}

// lookup returns the index of a mapped header, or -1 when the mapping leaves it unbound.
func (c columns) lookup(name string) (int, bool) {
	if name == "" {
		return -1, true
	}

	i, ok := c[strings.TrimSpace(name)]

	return i, ok
}
