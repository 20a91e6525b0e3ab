package query

import (
	"cmp"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Kind is the scalar type of a catalogued field
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindTime
)

var kindNames = [...]string{
	KindString: "string",
	KindInt:    "int",
	KindUint:   "uint",
	KindFloat:  "float",
	KindBool:   "bool",
	KindTime:   "time",
}

// String returns the name of the kind
func (kind Kind) String() string {
	if int(kind) < len(kindNames) {
		return kindNames[kind]
	}
	return "kind(" + strconv.Itoa(int(kind)) + ")"
}

// Value is a tagged scalar read out of an entity field or parsed out of a filter literal.
// Only the member matching Kind is meaningful.
type Value struct {
	Kind Kind

	str     string
	integer int64
	uint    uint64
	float   float64
	boolean bool
	time    time.Time
}

// StringValue wraps a string
func StringValue(val string) Value { return Value{Kind: KindString, str: val} }

// IntValue wraps a signed integer
func IntValue(val int64) Value { return Value{Kind: KindInt, integer: val} }

// UintValue wraps an unsigned integer
func UintValue(val uint64) Value { return Value{Kind: KindUint, uint: val} }

// FloatValue wraps a floating point number
func FloatValue(val float64) Value { return Value{Kind: KindFloat, float: val} }

// BoolValue wraps a boolean
func BoolValue(val bool) Value { return Value{Kind: KindBool, boolean: val} }

// TimeValue wraps a point in time
func TimeValue(val time.Time) Value { return Value{Kind: KindTime, time: val} }

// Interface returns the wrapped scalar as a plain Go value
func (val Value) Interface() any {
	switch val.Kind {
	case KindInt:
		return val.integer
	case KindUint:
		return val.uint
	case KindFloat:
		return val.float
	case KindBool:
		return val.boolean
	case KindTime:
		return val.time
	default:
		return val.str
	}
}

// MarshalJSON encodes the wrapped scalar
func (val Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(val.Interface())
}

// compareValues orders two values of the same kind: numbers numerically, strings ordinally, false before true
// and times chronologically.
func compareValues(a, b Value) int {
	switch a.Kind {
	case KindInt:
		return cmp.Compare(a.integer, b.integer)
	case KindUint:
		return cmp.Compare(a.uint, b.uint)
	case KindFloat:
		return cmp.Compare(a.float, b.float)
	case KindBool:
		switch {
		case a.boolean == b.boolean:
			return 0
		case !a.boolean:
			return -1
		default:
			return 1
		}
	case KindTime:
		return a.time.Compare(b.time)
	default:
		return strings.Compare(a.str, b.str)
	}
}
