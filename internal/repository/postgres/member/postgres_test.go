package member

import (
	"testing"

	memberdomain "church-admin-go/internal/domain/member"
)

func TestPredicateSQL(t *testing.T) {
	clause, args := predicateSQL(memberdomain.Equals(memberdomain.FieldGender, "male"))
	if clause != "gender = ?" || len(args) != 1 || args[0] != "male" {
		t.Fatalf("unexpected equals %q %v", clause, args)
	}

	clause, args = predicateSQL(memberdomain.In(memberdomain.FieldGender, "male", "female"))
	if clause != "gender IN ?" || len(args) != 1 {
		t.Fatalf("unexpected in %q %v", clause, args)
	}

	clause, args = predicateSQL(memberdomain.Contains("50%_off", memberdomain.FieldName, memberdomain.FieldEmail))
	if clause != "(name ILIKE ? OR email ILIKE ?)" {
		t.Fatalf("unexpected contains %q", clause)
	}
	if len(args) != 2 || args[0] != `%50\%\_off%` {
		t.Fatalf("unexpected contains args %v", args)
	}
}
