package ssrm

import "strings"

// ApplySort renders the ORDER BY clause from the sort model. Unregistered
// columns are dropped, direction is restricted to ASC/DESC, and at most
// MaxSortEntries are honored. When nothing valid remains the entity's
// default order applies, so pagination stays deterministic without a
// client-specified sort.
func ApplySort(reg Registry, sorts []SortEntry, defaultOrder []SortEntry) string {
	parts := compileSortEntries(reg, sorts)
	if len(parts) == 0 {
		parts = compileSortEntries(reg, defaultOrder)
	}
	if len(parts) == 0 {
		return ""
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

func compileSortEntries(reg Registry, sorts []SortEntry) []string {
	var parts []string
	for _, s := range sorts {
		if len(parts) >= MaxSortEntries {
			break
		}
		col, ok := reg.Lookup(s.ColID)
		if !ok {
			continue
		}
		dir := "ASC"
		if strings.EqualFold(strings.TrimSpace(s.Sort), "desc") {
			dir = "DESC"
		}
		parts = append(parts, col.expr+" "+dir)
	}
	return parts
}
