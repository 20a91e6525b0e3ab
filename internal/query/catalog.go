package query

import (
	"reflect"
	"strings"
	"time"

	"github.com/skybi/user-service/internal/hashmap"
)

var timeType = reflect.TypeOf(time.Time{})

// catalogs caches one catalog per struct type for the process lifetime
var catalogs = hashmap.NewNormal[reflect.Type, *Catalog]()

// Field is a single catalogued scalar field of an entity type
type Field struct {
	// Name is the canonical name used in shaped output (the JSON name if the field is tagged)
	Name string

	// GoName is the declared Go field name
	GoName string

	Kind  Kind
	index []int
}

// Read extracts the value of the field out of the given entity (a struct or a pointer to one).
// A nil pointer yields the zero value of the field's kind.
func (field *Field) Read(entity any) Value {
	return field.read(reflect.ValueOf(entity))
}

func (field *Field) read(ref reflect.Value) Value {
	for ref.Kind() == reflect.Pointer {
		if ref.IsNil() {
			return Value{Kind: field.Kind}
		}
		ref = ref.Elem()
	}
	if !ref.IsValid() {
		return Value{Kind: field.Kind}
	}

	fieldRef, err := ref.FieldByIndexErr(field.index)
	if err != nil {
		return Value{Kind: field.Kind}
	}

	switch field.Kind {
	case KindInt:
		return IntValue(fieldRef.Int())
	case KindUint:
		return UintValue(fieldRef.Uint())
	case KindFloat:
		return FloatValue(fieldRef.Float())
	case KindBool:
		return BoolValue(fieldRef.Bool())
	case KindTime:
		return TimeValue(fieldRef.Interface().(time.Time))
	default:
		return StringValue(fieldRef.String())
	}
}

// Catalog maps the case-insensitive field names of an entity type to their accessors.
// A catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	typ    reflect.Type
	fields []*Field
	byName map[string][]*Field
}

// CatalogOf returns the catalog of the entity type T, building it on first use
func CatalogOf[T any]() *Catalog {
	return catalogFor(reflect.TypeOf((*T)(nil)).Elem())
}

func catalogFor(typ reflect.Type) *Catalog {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return catalogs.LoadOrCompute(typ, func() *Catalog {
		return buildCatalog(typ)
	})
}

func buildCatalog(typ reflect.Type) *Catalog {
	catalog := &Catalog{
		typ:    typ,
		byName: make(map[string][]*Field),
	}
	if typ.Kind() != reflect.Struct {
		return catalog
	}

	for _, def := range reflect.VisibleFields(typ) {
		if def.Anonymous || !def.IsExported() {
			continue
		}
		kind, ok := scalarKind(def.Type)
		if !ok {
			continue
		}
		name, ok := canonicalName(def)
		if !ok {
			continue
		}

		field := &Field{
			Name:   name,
			GoName: def.Name,
			Kind:   kind,
			index:  def.Index,
		}
		catalog.fields = append(catalog.fields, field)
		catalog.index(field.Name, field)
		if !strings.EqualFold(field.GoName, field.Name) {
			catalog.index(field.GoName, field)
		}
	}
	return catalog
}

func (catalog *Catalog) index(name string, field *Field) {
	key := strings.ToLower(name)
	catalog.byName[key] = append(catalog.byName[key], field)
}

// Resolve looks up a field by its canonical or Go name, ignoring case.
// The lookup fails if the name is unknown or matches more than one field.
func (catalog *Catalog) Resolve(name string) (*Field, bool) {
	matches := catalog.byName[strings.ToLower(strings.TrimSpace(name))]
	if len(matches) != 1 {
		return nil, false
	}
	return matches[0], true
}

// Fields returns all catalogued fields in declaration order
func (catalog *Catalog) Fields() []*Field {
	out := make([]*Field, len(catalog.fields))
	copy(out, catalog.fields)
	return out
}

// Type returns the struct type the catalog describes
func (catalog *Catalog) Type() reflect.Type {
	return catalog.typ
}

func scalarKind(typ reflect.Type) (Kind, bool) {
	if typ == timeType {
		return KindTime, true
	}
	switch typ.Kind() {
	case reflect.String:
		return KindString, true
	case reflect.Bool:
		return KindBool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint, true
	case reflect.Float32, reflect.Float64:
		return KindFloat, true
	default:
		return 0, false
	}
}

// canonicalName returns the JSON name of the field; fields hidden from JSON are not catalogued
func canonicalName(def reflect.StructField) (string, bool) {
	tag, ok := def.Tag.Lookup("json")
	if !ok {
		return def.Name, true
	}
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return def.Name, true
	}
	return name, true
}
