package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/archsearch/internal/domain/category"
)

// CategoryField is the multi-valued index field holding document categories.
const CategoryField = "category"

// Join is the OData operator between category predicates (ANY-of semantics).
const Join = " or "

// Categories builds an OData filter matching documents tagged with any label
// of the set. ok is false when the set is empty and no filter applies.
func Categories(set category.Set) (expr string, ok bool) {
	return OnField(CategoryField, set)
}

// OnField is Categories against an arbitrary collection field.
func OnField(field string, set category.Set) (expr string, ok bool) {
	if set.IsEmpty() {
		return "", false
	}
	labels := set.Sorted()
	preds := make([]string, 0, len(labels))
	for _, l := range labels {
		preds = append(preds, AnyEq(field, l))
	}
	return strings.Join(preds, Join), true
}

// AnyEq returns the lambda predicate "field/any(c: c eq 'value')".
func AnyEq(field, value string) string {
	return fmt.Sprintf("%s/any(c: c eq %s)", field, Literal(value))
}

// Literal quotes s as an OData string literal.
func Literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
