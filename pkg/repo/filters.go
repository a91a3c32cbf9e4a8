package repo

import (
	"fmt"
	"strings"
)

// Filter renders one predicate for a column. Implementations produce
// placeholder expressions only; column names come from repository field maps,
// never from callers.
type Filter interface {
	String(column string, argIdx int) string
	Value() []any
}

// FieldFilter pairs a typed field enum with a predicate. Repositories map the
// field through their allow-list before rendering.
type FieldFilter[T comparable] struct {
	Column T
	Filter Filter
}

// SortByField is one ordering term over a typed field enum.
type SortByField[T comparable] struct {
	Field     T
	Ascending bool
}

type SortBy[T comparable] struct {
	Fields []SortByField[T]
}

// ToSQL renders an ORDER BY clause using the repository's field map. Unknown
// fields are an error: ordering is allow-listed, not interpolated.
func (s SortBy[T]) ToSQL(mapping map[T]string) (string, error) {
	if len(s.Fields) == 0 {
		return "", nil
	}
	terms := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		column, ok := mapping[f.Field]
		if !ok {
			return "", fmt.Errorf("unknown sort field: %v", f.Field)
		}
		dir := "DESC"
		if f.Ascending {
			dir = "ASC"
		}
		terms = append(terms, column+" "+dir)
	}
	return "ORDER BY " + strings.Join(terms, ", "), nil
}

type comparisonFilter struct {
	op    string
	value any
}

func (f comparisonFilter) String(column string, argIdx int) string {
	return fmt.Sprintf("%s %s $%d", column, f.op, argIdx)
}

func (f comparisonFilter) Value() []any {
	return []any{f.value}
}

func Eq(value any) Filter    { return comparisonFilter{op: "=", value: value} }
func NotEq(value any) Filter { return comparisonFilter{op: "<>", value: value} }
func Gt(value any) Filter    { return comparisonFilter{op: ">", value: value} }
func Gte(value any) Filter   { return comparisonFilter{op: ">=", value: value} }
func Lt(value any) Filter    { return comparisonFilter{op: "<", value: value} }
func Lte(value any) Filter   { return comparisonFilter{op: "<=", value: value} }

type likeFilter struct {
	value string
}

func (f likeFilter) String(column string, argIdx int) string {
	return fmt.Sprintf("%s ILIKE $%d", column, argIdx)
}

func (f likeFilter) Value() []any {
	return []any{f.value}
}

// ILike matches case-insensitively; callers add their own wildcards.
func ILike(value string) Filter { return likeFilter{value: value} }

type inFilter struct {
	values []any
}

func (f inFilter) String(column string, argIdx int) string {
	placeholders := make([]string, len(f.values))
	for i := range f.values {
		placeholders[i] = fmt.Sprintf("$%d", argIdx+i)
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", "))
}

func (f inFilter) Value() []any {
	return f.values
}

func In[T any](values []T) Filter {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return inFilter{values: out}
}
