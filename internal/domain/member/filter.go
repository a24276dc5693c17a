package member

import (
	"fmt"
	"strings"
)

const ListLimit = 100

type Field string

const (
	FieldChurchID Field = "church_id"
	FieldName     Field = "name"
	FieldGender   Field = "gender"
	FieldRole     Field = "role"
	FieldEmail    Field = "email"
	FieldPhone    Field = "phone"
)

var allowedFields = map[Field]struct{}{
	FieldChurchID: {},
	FieldName:     {},
	FieldGender:   {},
	FieldRole:     {},
	FieldEmail:    {},
	FieldPhone:    {},
}

type PredicateKind int

const (
	PredicateEquals PredicateKind = iota + 1
	PredicateContains
	PredicateIn
)

// Predicate is one typed condition of a member query. Build it with Equals,
// Contains or In.
type Predicate struct {
	Kind   PredicateKind
	Fields []Field
	Values []string
}

func Equals(field Field, value string) Predicate {
	return Predicate{Kind: PredicateEquals, Fields: []Field{field}, Values: []string{value}}
}

// Contains matches value case-insensitively against any of fields.
func Contains(value string, fields ...Field) Predicate {
	return Predicate{Kind: PredicateContains, Fields: fields, Values: []string{value}}
}

func In(field Field, values ...string) Predicate {
	return Predicate{Kind: PredicateIn, Fields: []Field{field}, Values: values}
}

// Filter is a conjunction of predicates.
type Filter struct {
	Predicates []Predicate
	Limit      int
}

func NewFilter(predicates ...Predicate) Filter {
	return Filter{Predicates: predicates, Limit: ListLimit}
}

func (f Filter) With(predicates ...Predicate) Filter {
	next := make([]Predicate, 0, len(f.Predicates)+len(predicates))
	next = append(next, f.Predicates...)
	next = append(next, predicates...)
	return Filter{Predicates: next, Limit: f.Limit}
}

// Validate rejects predicates on unknown fields or without values.
func (f Filter) Validate() error {
	if f.Limit <= 0 || f.Limit > ListLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidFilter, ListLimit)
	}
	for _, predicate := range f.Predicates {
		if len(predicate.Fields) == 0 {
			return fmt.Errorf("%w: predicate without field", ErrInvalidFilter)
		}
		for _, field := range predicate.Fields {
			if _, ok := allowedFields[field]; !ok {
				return fmt.Errorf("%w: unknown field %q", ErrInvalidFilter, field)
			}
		}
		switch predicate.Kind {
		case PredicateEquals, PredicateContains:
			if len(predicate.Values) != 1 || strings.TrimSpace(predicate.Values[0]) == "" {
				return fmt.Errorf("%w: %s needs one value", ErrInvalidFilter, predicate.Fields[0])
			}
			if predicate.Kind == PredicateEquals && len(predicate.Fields) != 1 {
				return fmt.Errorf("%w: equals takes one field", ErrInvalidFilter)
			}
		case PredicateIn:
			if len(predicate.Fields) != 1 || len(predicate.Values) == 0 {
				return fmt.Errorf("%w: in needs one field and at least one value", ErrInvalidFilter)
			}
		default:
			return fmt.Errorf("%w: unknown predicate", ErrInvalidFilter)
		}
	}
	return nil
}
