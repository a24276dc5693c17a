package member

import (
	"errors"
	"testing"
)

func TestFilterValidate(t *testing.T) {
	cases := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{name: "empty", filter: NewFilter()},
		{name: "equals", filter: NewFilter(Equals(FieldGender, "male"))},
		{name: "contains many fields", filter: NewFilter(Contains("jo", FieldName, FieldEmail))},
		{name: "in", filter: NewFilter(In(FieldGender, "male", "female"))},
		{name: "unknown field", filter: NewFilter(Equals(Field("password"), "x")), wantErr: true},
		{name: "blank value", filter: NewFilter(Equals(FieldRole, " ")), wantErr: true},
		{name: "in without values", filter: NewFilter(In(FieldGender)), wantErr: true},
		{name: "contains without fields", filter: NewFilter(Contains("jo")), wantErr: true},
		{name: "zero limit", filter: Filter{}, wantErr: true},
		{name: "limit too high", filter: Filter{Limit: ListLimit + 1}, wantErr: true},
		{name: "zero kind", filter: NewFilter(Predicate{Fields: []Field{FieldName}, Values: []string{"x"}}), wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.filter.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidFilter) {
					t.Fatalf("expected invalid filter, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestFilterWithDoesNotMutate(t *testing.T) {
	base := NewFilter(Equals(FieldChurchID, "c1"))
	extended := base.With(Equals(FieldRole, "usher"))

	if len(base.Predicates) != 1 {
		t.Fatalf("expected base unchanged, got %d predicates", len(base.Predicates))
	}
	if len(extended.Predicates) != 2 || extended.Limit != ListLimit {
		t.Fatalf("unexpected extended filter %+v", extended)
	}
}
