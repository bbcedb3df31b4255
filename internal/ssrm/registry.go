package ssrm

// Registry is the closed allow-list from client-facing field names to trusted
// SQL column expressions. It is the only place in the engine where a string
// becomes SQL text: the builder accepts columns exclusively as the opaque
// Column values this lookup produces, so an unregistered field can never
// reach the query.
type Registry map[string]string

// Column is a trusted SQL column expression. Values exist only via
// Registry.Lookup or TrustedColumn, both fed from compile-time tables.
type Column struct {
	expr string
}

// Lookup resolves a logical field name. Callers must drop the entry when ok
// is false, never pass the raw field name through.
func (r Registry) Lookup(field string) (Column, bool) {
	expr, ok := r[field]
	if !ok || expr == "" {
		return Column{}, false
	}
	return Column{expr: expr}, true
}

// TrustedColumn wraps a compile-time column name (scope columns, default
// order tiebreakers) that is not necessarily client-filterable.
func TrustedColumn(expr string) Column {
	return Column{expr: expr}
}
