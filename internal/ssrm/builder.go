package ssrm

import "strings"

// Op is the closed comparison operator set the builder accepts.
type Op string

const (
	OpEq Op = "="
	OpNe Op = "<>"
	OpLt Op = "<"
	OpLe Op = "<="
	OpGt Op = ">"
	OpGe Op = ">="
)

var validOps = map[Op]bool{
	OpEq: true, OpNe: true, OpLt: true, OpLe: true, OpGt: true, OpGe: true,
}

// Builder accumulates AND-joined WHERE fragments and their bound args.
// Fragments are assembled only from Column values and the fixed templates
// below; request data travels exclusively through args.
type Builder struct {
	conds []string
	args  []any
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Compare appends "col OP ?". Unrecognized operators default to equality.
func (b *Builder) Compare(col Column, op Op, v any) {
	if !validOps[op] {
		op = OpEq
	}
	b.conds = append(b.conds, col.expr+" "+string(op)+" ?")
	b.args = append(b.args, v)
}

// Between appends "col BETWEEN ? AND ?".
func (b *Builder) Between(col Column, lo, hi any) {
	b.conds = append(b.conds, col.expr+" BETWEEN ? AND ?")
	b.args = append(b.args, lo, hi)
}

// InCSV appends a membership test over a single CSV-bound parameter, keeping
// the bind count constant regardless of set size.
func (b *Builder) InCSV(col Column, csv string) {
	b.conds = append(b.conds, "FIND_IN_SET("+col.expr+", ?)")
	b.args = append(b.args, csv)
}

// Like appends "col [NOT] LIKE ?". The pattern must already carry its
// wildcards; they are added server-side, never taken from the client.
func (b *Builder) Like(col Column, pattern string, negate bool) {
	if negate {
		b.conds = append(b.conds, col.expr+" NOT LIKE ?")
	} else {
		b.conds = append(b.conds, col.expr+" LIKE ?")
	}
	b.args = append(b.args, pattern)
}

// EqOrNullParam appends "(? IS NULL OR col = ?)" binding v twice. A nil v
// means no restriction; used for the organization scope where machine
// callers may be unrestricted.
func (b *Builder) EqOrNullParam(col Column, v any) {
	b.conds = append(b.conds, "(? IS NULL OR "+col.expr+" = ?)")
	b.args = append(b.args, v, v)
}

// NoRows forces an empty result. Safety default for callers with no branch
// authorization at all.
func (b *Builder) NoRows() {
	b.conds = append(b.conds, "1 = 0")
}

// WhereClause renders " WHERE ..." or "" when no condition was added.
func (b *Builder) WhereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// Args returns the bound parameters in fragment order.
func (b *Builder) Args() []any {
	return b.args
}

// Len reports the number of accumulated conditions.
func (b *Builder) Len() int {
	return len(b.conds)
}
