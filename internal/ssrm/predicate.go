package ssrm

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"backend/internal/utils"
)

// ApplyFilters compiles every filterModel entry against the registry into b.
// Entries that contribute nothing are reported split by reason: unknown holds
// fields absent from the registry, unusable holds registered fields whose
// payload could not be compiled (unknown family, malformed value). Strict
// callers reject the former; the latter is always a per-field drop. Fields
// are processed in name order so identical requests produce identical SQL.
func ApplyFilters(b *Builder, reg Registry, filters map[string]FilterSpec) (unknown, unusable []string) {
	fields := make([]string, 0, len(filters))
	for f := range filters {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		spec := filters[field]
		col, ok := reg.Lookup(field)
		if !ok {
			unknown = append(unknown, field)
			continue
		}
		if !spec.Valid() || !compileFilter(b, col, spec) {
			unusable = append(unusable, field)
		}
	}
	return unknown, unusable
}

func compileFilter(b *Builder, col Column, spec FilterSpec) bool {
	switch spec.Type {
	case FilterSet:
		return compileSet(b, col, spec)
	case FilterDate:
		return compileDate(b, col, spec)
	case FilterNumber:
		return compileNumber(b, col, spec)
	default:
		return compileText(b, col, spec)
	}
}

func compileSet(b *Builder, col Column, spec FilterSpec) bool {
	values := make([]string, 0, len(spec.Values))
	for _, v := range spec.Values {
		v = strings.TrimSpace(v)
		// FIND_IN_SET cannot represent embedded commas; such a value could
		// only ever produce false positives, so it is dropped.
		if v == "" || strings.Contains(v, ",") {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return false
	}
	b.InCSV(col, strings.Join(values, ","))
	return true
}

func compileDate(b *Builder, col Column, spec FilterSpec) bool {
	from, okFrom := parseFilterDate(spec.DateFrom, spec.Value)
	to, okTo := parseFilterDate(spec.DateTo, spec.ValueTo)

	switch spec.Operator {
	case "inRange":
		if !okFrom || !okTo {
			return false
		}
		b.Between(col, from, utils.EndOfDayUTC(to))
		return true
	case "equals", "":
		if !okFrom {
			return false
		}
		// full-day window instead of exact equality: stored values carry
		// time-of-day, the filter does not
		b.Between(col, from, utils.EndOfDayUTC(from))
		return true
	case "lessThan":
		if !okFrom {
			return false
		}
		b.Compare(col, OpLt, from)
		return true
	case "lessThanOrEqual":
		if !okFrom {
			return false
		}
		b.Compare(col, OpLe, utils.EndOfDayUTC(from))
		return true
	case "greaterThan":
		if !okFrom {
			return false
		}
		b.Compare(col, OpGt, utils.EndOfDayUTC(from))
		return true
	case "greaterThanOrEqual":
		if !okFrom {
			return false
		}
		b.Compare(col, OpGe, from)
		return true
	}
	return false
}

func parseFilterDate(primary, fallback string) (time.Time, bool) {
	s := strings.TrimSpace(primary)
	if s == "" {
		s = strings.TrimSpace(fallback)
	}
	if s == "" {
		return time.Time{}, false
	}
	if v, err := utils.ParseDateTimeUTC(s); err == nil {
		return v, true
	}
	if v, err := utils.ParseDateUTC(s); err == nil {
		return v, true
	}
	return time.Time{}, false
}

func compileNumber(b *Builder, col Column, spec FilterSpec) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(spec.Value), 64)
	if err != nil {
		return false
	}

	if spec.Operator == "inRange" {
		hi, err := strconv.ParseFloat(strings.TrimSpace(spec.ValueTo), 64)
		if err != nil {
			return false
		}
		b.Between(col, v, hi)
		return true
	}

	b.Compare(col, numberOp(spec.Operator), v)
	return true
}

func numberOp(operator string) Op {
	switch operator {
	case "notEqual":
		return OpNe
	case "lessThan":
		return OpLt
	case "lessThanOrEqual":
		return OpLe
	case "greaterThan":
		return OpGt
	case "greaterThanOrEqual":
		return OpGe
	}
	return OpEq
}

func compileText(b *Builder, col Column, spec FilterSpec) bool {
	v := spec.Value
	switch spec.Operator {
	case "notEqual":
		b.Compare(col, OpNe, v)
	case "startsWith":
		b.Like(col, escapeLike(v)+"%", false)
	case "endsWith":
		b.Like(col, "%"+escapeLike(v), false)
	case "contains":
		b.Like(col, "%"+escapeLike(v)+"%", false)
	case "notContains":
		b.Like(col, "%"+escapeLike(v)+"%", true)
	default:
		b.Compare(col, OpEq, v)
	}
	return true
}

// escapeLike makes LIKE metacharacters in the user value match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
