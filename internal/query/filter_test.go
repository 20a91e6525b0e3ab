package query

import (
	"testing"
)

func filterFixture() []*person {
	return []*person{
		newPerson("1", "Ann", 18),
		newPerson("2", "Bob", 22),
		newPerson("3", "Cid", 45),
	}
}

func TestApplyFilterRelational(t *testing.T) {
	got := ApplyFilter(filterFixture(), "age>21")
	if want := []string{"2", "3"}; !equalStrings(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}

func TestApplyFilterOperators(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"age = 22", []string{"2"}},
		{"age == 22", []string{"2"}},
		{"age != 22", []string{"1", "3"}},
		{"age <> 22", []string{"1", "3"}},
		{"age < 22", []string{"1"}},
		{"age <= 22", []string{"1", "2"}},
		{"age >= 22", []string{"2", "3"}},
		{`name = "Bob"`, []string{"2"}},
		{`Name == 'Cid'`, []string{"3"}},
		{`name > "Ann"`, []string{"2", "3"}},
		{`name = "bob"`, []string{}},
	}
	for _, tt := range tests {
		got := ApplyFilter(filterFixture(), tt.expr)
		if !equalStrings(ids(got), tt.want) {
			t.Errorf("%s: ids = %v, want %v", tt.expr, ids(got), tt.want)
		}
	}
}

func TestApplyFilterConjunctions(t *testing.T) {
	for _, expr := range []string{
		`age>18 && name!="Cid"`,
		`age>18 & name!="Cid"`,
		`age>18 and name!="Cid"`,
		`age>18 AND name!="Cid"`,
	} {
		got := ApplyFilter(filterFixture(), expr)
		if want := []string{"2"}; !equalStrings(ids(got), want) {
			t.Errorf("%s: ids = %v, want %v", expr, ids(got), want)
		}
	}
}

func TestApplyFilterQuotedConjunctionIsLiteral(t *testing.T) {
	people := append(filterFixture(), newPerson("4", "Tom && Jerry", 30))
	got := ApplyFilter(people, `name = "Tom && Jerry"`)
	if want := []string{"4"}; !equalStrings(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}

func TestApplyFilterIdentity(t *testing.T) {
	people := filterFixture()
	for _, expr := range []string{"", "   ", "unknown > 3", "age >", "age > 'x'", `name = Bob`, "((age > 3))", `name = "open`, "age => 3", "active > true"} {
		got := ApplyFilter(people, expr)
		if !equalStrings(ids(got), ids(people)) {
			t.Errorf("%q: ids = %v, want identity", expr, ids(got))
		}
	}

	var empty []*person
	if got := ApplyFilter(empty, "age > 3"); got != nil {
		t.Fatalf("expected empty source to be returned as is, got %v", got)
	}
}

func TestApplyFilterDropsOnlyInvalidClauses(t *testing.T) {
	got := ApplyFilter(filterFixture(), `age > 20 && nope = 3 && name = 'Cid'`)
	if want := []string{"3"}; !equalStrings(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}

func TestApplyFilterIsIdempotent(t *testing.T) {
	expr := `age >= 22 && email != "x"`
	once := ApplyFilter(filterFixture(), expr)
	twice := ApplyFilter(once, expr)
	if !equalStrings(ids(once), ids(twice)) {
		t.Fatalf("once = %v, twice = %v", ids(once), ids(twice))
	}
}

func TestApplyFilterTypedFields(t *testing.T) {
	people := filterFixture()
	people[1].Active = true
	people[1].Score = 1.5
	people[2].Score = 0.25
	people[2].CreatedAt = mustTime(t, "2024-03-01T00:00:00Z")
	people[0].CreatedAt = mustTime(t, "2023-01-01T00:00:00Z")

	tests := []struct {
		expr string
		want []string
	}{
		{"active = true", []string{"2"}},
		{"active != TRUE", []string{"1", "3"}},
		{"score > 0.3", []string{"2"}},
		{`created_at >= "2024-01-01"`, []string{"3"}},
		{`created_at < "2024-01-01T00:00:00Z"`, []string{"1", "2"}},
	}
	for _, tt := range tests {
		got := ApplyFilter(people, tt.expr)
		if !equalStrings(ids(got), tt.want) {
			t.Errorf("%s: ids = %v, want %v", tt.expr, ids(got), tt.want)
		}
	}
}

func TestParseFilter(t *testing.T) {
	filter := ParseFilter(CatalogOf[person](), `Age>=21 && NAME = "A\"B"`)
	if len(filter) != 2 {
		t.Fatalf("expected 2 predicates, got %d", len(filter))
	}
	if filter[0].Field.Name != "age" || filter[0].Operator != OpGreaterOrEqual || filter[0].Literal.Interface() != int64(21) {
		t.Errorf("unexpected first predicate %+v", filter[0])
	}
	if filter[1].Field.Name != "name" || filter[1].Operator != OpEqual || filter[1].Literal.Interface() != `A"B` {
		t.Errorf("unexpected second predicate %+v", filter[1])
	}
}
