// Package identity resolves person names out of the labels carried by the
// source workbooks. Every row in the snapshot remembers which file it came
// from ("Checklist de Entregas - Enderson Lopes.xlsx"); the technician is
// whoever owns that file. Pedagogue cells often hold a bare first name, so
// a fixed alias table maps them to canonical full names.
package identity

import "strings"

// labelPrefixes and labelSuffix are the known decorations around a person
// name in a source-file label. Stripping is best effort: an unrecognized
// shape passes through unchanged.
var labelPrefixes = []string{
	"Checklist de Entregas - ",
	"Outras Atividades - ",
}

const labelSuffix = ".xlsx"

type Resolver struct {
	aliases map[string]string
	roster  map[string]bool
}

// NewResolver builds a resolver with an explicit alias table (first name to
// canonical full name) and principal-pedagogue roster.
func NewResolver(aliases map[string]string, roster []string) *Resolver {
	r := &Resolver{
		aliases: make(map[string]string, len(aliases)),
		roster:  make(map[string]bool, len(roster)),
	}
	for k, v := range aliases {
		r.aliases[k] = v
	}
	for _, name := range roster {
		r.roster[name] = true
	}
	return r
}

// DefaultResolver returns the production alias table and roster.
func DefaultResolver() *Resolver {
	return NewResolver(
		map[string]string{
			"Josimeri": "Josimeri Grein",
			"Leandro":  "Leandro Prado",
			"Enderson": "Enderson Lopes",
			"Regiane":  "Regiane Hornung",
			"Marcia":   "Marcia Salles",
		},
		[]string{"Josimeri Grein", "Leandro Prado", "Enderson Lopes"},
	)
}

// PersonFromLabel extracts the person name from a source-file label.
func (r *Resolver) PersonFromLabel(label string) string {
	for _, p := range labelPrefixes {
		label = strings.Replace(label, p, "", 1)
	}
	label = strings.Replace(label, labelSuffix, "", 1)
	return strings.TrimSpace(label)
}

// CanonicalPedagogue maps an aliased first name to the canonical full name.
// Unknown names come back unchanged.
func (r *Resolver) CanonicalPedagogue(name string) string {
	if full, ok := r.aliases[name]; ok {
		return full
	}
	return name
}

// IsPrincipalPedagogue reports roster membership of an already-resolved name.
func (r *Resolver) IsPrincipalPedagogue(name string) bool {
	return r.roster[name]
}
