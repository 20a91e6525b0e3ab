package query

import (
	"testing"
	"time"
)

type base struct {
	ID string `json:"id"`
}

type person struct {
	base
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Email     string    `json:"email"`
	Secret    string    `json:"-"`
	Active    bool      `json:"active"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	internal  string
}

func newPerson(id, name string, age int) *person {
	return &person{base: base{ID: id}, Name: name, Age: age, Email: name + "@example.com"}
}

func ids(people []*person) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustTime(t testing.TB, raw string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}
