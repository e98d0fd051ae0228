package docstore

import "reflect"

// Op is a filter comparison operator.
type Op string

const (
	// OpEq matches documents whose field equals the clause value.
	OpEq Op = "=="
	// OpContains matches documents whose array field contains the clause value.
	OpContains Op = "array-contains"
)

// Clause is a single field predicate.
type Clause struct {
	Field string
	Op    Op
	Value any
}

// Filter selects documents in a collection. A filter is a disjunction of
// clauses: a document matches if ANY clause matches. An empty filter
// matches every document.
type Filter struct {
	Any []Clause
}

// Eq builds an equality clause.
func Eq(field string, value any) Clause {
	return Clause{Field: field, Op: OpEq, Value: value}
}

// Contains builds a set-membership clause over an array field.
func Contains(field string, value any) Clause {
	return Clause{Field: field, Op: OpContains, Value: value}
}

// Where builds a single-clause filter.
func Where(c Clause) Filter {
	return Filter{Any: []Clause{c}}
}

// Or builds a disjunctive filter from multiple clauses.
func Or(clauses ...Clause) Filter {
	return Filter{Any: clauses}
}

// All matches every document in a collection.
func All() Filter {
	return Filter{}
}

// Matches reports whether the document satisfies the filter.
func (f Filter) Matches(doc Document) bool {
	if len(f.Any) == 0 {
		return true
	}
	for _, c := range f.Any {
		if c.matches(doc) {
			return true
		}
	}
	return false
}

func (c Clause) matches(doc Document) bool {
	field, ok := doc.Data[c.Field]
	if !ok {
		return false
	}

	want, err := Normalize(c.Value)
	if err != nil {
		return false
	}

	switch c.Op {
	case OpEq:
		return reflect.DeepEqual(field, want)
	case OpContains:
		arr, ok := field.([]any)
		if !ok {
			return false
		}
		for _, v := range arr {
			if reflect.DeepEqual(v, want) {
				return true
			}
		}
	}
	return false
}
