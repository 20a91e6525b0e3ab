package query

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

// Entry is a single named value of a shaped record
type Entry struct {
	Name  string
	Value Value
}

// Record is a flat, ordered projection of an entity.
// It marshals to a JSON object whose keys appear in record order.
type Record []Entry

// Get returns the value stored under the given name
func (record Record) Get(name string) (Value, bool) {
	for _, entry := range record {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// Names returns the field names of the record in order
func (record Record) Names() []string {
	names := make([]string, len(record))
	for i, entry := range record {
		names[i] = entry.Name
	}
	return names
}

// MarshalJSON encodes the record as a JSON object preserving the entry order
func (record Record) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte('{')
	for i, entry := range record {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseFields resolves a comma separated field list in the requested order.
// Unknown and repeated names are dropped.
func ParseFields(catalog *Catalog, list string) []*Field {
	var fields []*Field
	seen := make(map[*Field]bool)
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		field, ok := catalog.Resolve(name)
		if !ok {
			log.Debug().Str("field", name).Msg("dropping unknown displayed field")
			continue
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		fields = append(fields, field)
	}
	return fields
}

// Shape projects a single entity onto the given field list.
// If no field of the list resolves, every catalogued field is included.
func Shape[T any](entity T, list string) Record {
	return project(entity, selectFields(CatalogOf[T](), list))
}

// ShapeAll projects every entity onto the given field list, resolving the list only once
func ShapeAll[T any](entities []T, list string) []Record {
	fields := selectFields(CatalogOf[T](), list)
	out := make([]Record, len(entities))
	for i, entity := range entities {
		out[i] = project(entity, fields)
	}
	return out
}

func selectFields(catalog *Catalog, list string) []*Field {
	fields := ParseFields(catalog, list)
	if len(fields) == 0 {
		return catalog.fields
	}
	return fields
}

func project(entity any, fields []*Field) Record {
	record := make(Record, len(fields))
	for i, field := range fields {
		record[i] = Entry{Name: field.Name, Value: field.Read(entity)}
	}
	return record
}
