package query

import (
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// Direction is the direction of a single sort key
type Direction uint8

const (
	Ascending Direction = iota
	Descending
)

// String returns "asc" or "desc"
func (direction Direction) String() string {
	if direction == Descending {
		return "desc"
	}
	return "asc"
}

// SortKey is a single resolved component of a sort plan
type SortKey struct {
	Field     *Field
	Direction Direction
}

// Sort is an ordered sort plan; the first key is the primary one
type Sort []SortKey

// ParseSort parses a comma separated list of `field [desc]` terms, e.g. `name desc, age`.
// A term sorts descending only if it ends in a lowercase " desc". Terms referencing unknown fields are dropped.
func ParseSort(catalog *Catalog, expr string) Sort {
	var plan Sort
	for _, term := range strings.Split(expr, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		name := strings.Fields(term)[0]
		field, ok := catalog.Resolve(name)
		if !ok {
			log.Debug().Str("field", name).Msg("dropping unknown sort field")
			continue
		}

		direction := Ascending
		if strings.HasSuffix(term, " desc") {
			direction = Descending
		}
		plan = append(plan, SortKey{Field: field, Direction: direction})
	}
	return plan
}

// compare orders two pre-read key tuples according to the plan
func (plan Sort) compare(a, b []Value) int {
	for i, key := range plan {
		cmp := compareValues(a[i], b[i])
		if cmp == 0 {
			continue
		}
		if key.Direction == Descending {
			return -cmp
		}
		return cmp
	}
	return 0
}

// ApplySort returns a stably sorted copy of the source ordered by the sort expression.
// An empty source, a blank expression or a plan without any known field returns the source untouched.
func ApplySort[T any](source []T, expr string) []T {
	if len(source) == 0 || strings.TrimSpace(expr) == "" {
		return source
	}

	plan := ParseSort(CatalogOf[T](), expr)
	if len(plan) == 0 {
		return source
	}

	type keyed struct {
		entity T
		keys   []Value
	}
	rows := make([]keyed, len(source))
	for i, entity := range source {
		keys := make([]Value, len(plan))
		for j, key := range plan {
			keys[j] = key.Field.Read(entity)
		}
		rows[i] = keyed{entity: entity, keys: keys}
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		return plan.compare(a.keys, b.keys)
	})

	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = row.entity
	}
	return out
}
