package query

import (
	"testing"
)

func TestApplySortIsStable(t *testing.T) {
	people := []*person{
		newPerson("1", "Ann", 30),
		newPerson("2", "Bob", 30),
		newPerson("3", "Ann", 30),
	}
	got := ApplySort(people, "name desc")
	if want := []string{"2", "1", "3"}; !equalStrings(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}

	// The input must not be reordered in place
	if want := []string{"1", "2", "3"}; !equalStrings(ids(people), want) {
		t.Fatalf("source was mutated: %v", ids(people))
	}
}

func TestApplySortNumericNotLexical(t *testing.T) {
	people := []*person{
		newPerson("a", "A", 100),
		newPerson("b", "B", 9),
		newPerson("c", "C", 10),
	}
	got := ApplySort(people, "age")
	if want := []string{"b", "c", "a"}; !equalStrings(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}

func TestApplySortMultipleKeys(t *testing.T) {
	people := []*person{
		newPerson("1", "Bob", 20),
		newPerson("2", "Ann", 20),
		newPerson("3", "Ann", 40),
		newPerson("4", "Bob", 50),
	}

	tests := []struct {
		expr string
		want []string
	}{
		{"name, age desc", []string{"3", "2", "4", "1"}},
		{"Name,Age", []string{"2", "3", "1", "4"}},
		{"age desc, name", []string{"4", "3", "2", "1"}},
		{"age, unknown, name desc", []string{"1", "2", "3", "4"}},
		{" , name ,, ", []string{"2", "3", "1", "4"}},
	}
	for _, tt := range tests {
		got := ApplySort(people, tt.expr)
		if !equalStrings(ids(got), tt.want) {
			t.Errorf("%q: ids = %v, want %v", tt.expr, ids(got), tt.want)
		}
	}
}

func TestApplySortDescendingIsExactLowercase(t *testing.T) {
	people := []*person{
		newPerson("1", "Bob", 1),
		newPerson("2", "Ann", 2),
	}
	for _, expr := range []string{"name DESC", "name Desc", "name descending", "name asc", "name"} {
		got := ApplySort(people, expr)
		if want := []string{"2", "1"}; !equalStrings(ids(got), want) {
			t.Errorf("%q: ids = %v, want ascending %v", expr, ids(got), want)
		}
	}
}

func TestApplySortIdentity(t *testing.T) {
	people := []*person{
		newPerson("2", "Bob", 1),
		newPerson("1", "Ann", 2),
	}
	for _, expr := range []string{"", "  ", "unknownField", "unknownField desc, other"} {
		got := ApplySort(people, expr)
		if !equalStrings(ids(got), []string{"2", "1"}) {
			t.Errorf("%q: ids = %v, want identity", expr, ids(got))
		}
	}
}

func TestApplySortBooleansAndTimes(t *testing.T) {
	people := []*person{
		newPerson("1", "A", 1),
		newPerson("2", "B", 1),
		newPerson("3", "C", 1),
	}
	people[0].Active = true
	people[0].CreatedAt = mustTime(t, "2024-01-01T00:00:00Z")
	people[1].CreatedAt = mustTime(t, "2022-01-01T00:00:00Z")
	people[2].CreatedAt = mustTime(t, "2023-01-01T00:00:00Z")

	if got := ApplySort(people, "active"); !equalStrings(ids(got), []string{"2", "3", "1"}) {
		t.Errorf("active: ids = %v", ids(got))
	}
	if got := ApplySort(people, "created_at desc"); !equalStrings(ids(got), []string{"1", "3", "2"}) {
		t.Errorf("created_at desc: ids = %v", ids(got))
	}
}

func TestParseSort(t *testing.T) {
	plan := ParseSort(CatalogOf[person](), "NAME desc, age")
	if len(plan) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(plan))
	}
	if plan[0].Field.Name != "name" || plan[0].Direction != Descending {
		t.Errorf("unexpected first key %s %s", plan[0].Field.Name, plan[0].Direction)
	}
	if plan[1].Field.Name != "age" || plan[1].Direction != Ascending {
		t.Errorf("unexpected second key %s %s", plan[1].Field.Name, plan[1].Direction)
	}
}
