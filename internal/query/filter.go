package query

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
)

// Operator is a comparison operator of a filter predicate
type Operator uint8

const (
	OpEqual Operator = iota
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
)

var operatorSymbols = map[string]Operator{
	"=":  OpEqual,
	"==": OpEqual,
	"!=": OpNotEqual,
	"<>": OpNotEqual,
	"<":  OpLess,
	"<=": OpLessOrEqual,
	">":  OpGreater,
	">=": OpGreaterOrEqual,
}

// String returns the canonical symbol of the operator
func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessOrEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	default:
		return "?"
	}
}

func (op Operator) relational() bool {
	return op != OpEqual && op != OpNotEqual
}

func (op Operator) holds(cmp int) bool {
	switch op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpLess:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	default:
		return false
	}
}

// Predicate is a single comparison of an entity field against a literal
type Predicate struct {
	Field    *Field
	Operator Operator
	Literal  Value
}

// Match reports whether the entity satisfies the predicate
func (predicate *Predicate) Match(entity any) bool {
	return predicate.Operator.holds(compareValues(predicate.Field.Read(entity), predicate.Literal))
}

// Filter is a conjunction of predicates; the empty filter matches everything
type Filter []*Predicate

// Match reports whether the entity satisfies every predicate of the filter
func (filter Filter) Match(entity any) bool {
	for _, predicate := range filter {
		if !predicate.Match(entity) {
			return false
		}
	}
	return true
}

// ParseFilter parses a flat conjunction of comparisons, e.g. `age>21 && roles="Admin"`.
// Clauses that are malformed, reference unknown fields or carry a literal not matching the field's kind are dropped.
func ParseFilter(catalog *Catalog, expr string) Filter {
	var filter Filter
	for _, clause := range splitClauses(lex(expr)) {
		predicate, ok := parseClause(catalog, clause)
		if !ok {
			log.Debug().Str("clause", renderTokens(clause)).Msg("dropping invalid filter clause")
			continue
		}
		filter = append(filter, predicate)
	}
	return filter
}

// ApplyFilter returns the entities matching the filter expression in their original relative order.
// An empty source, a blank expression or an expression without any valid clause leaves the source untouched.
func ApplyFilter[T any](source []T, expr string) []T {
	if len(source) == 0 || strings.TrimSpace(expr) == "" {
		return source
	}

	filter := ParseFilter(CatalogOf[T](), expr)
	if len(filter) == 0 {
		return source
	}

	out := make([]T, 0, len(source))
	for _, entity := range source {
		if filter.Match(entity) {
			out = append(out, entity)
		}
	}
	return out
}

func parseClause(catalog *Catalog, clause []token) (*Predicate, bool) {
	if len(clause) != 3 || clause[0].kind != tokenWord || clause[1].kind != tokenOperator {
		return nil, false
	}

	field, ok := catalog.Resolve(clause[0].text)
	if !ok {
		return nil, false
	}
	op := operatorSymbols[clause[1].text]
	if op.relational() && field.Kind == KindBool {
		return nil, false
	}
	literal, ok := convertLiteral(field.Kind, clause[2])
	if !ok {
		return nil, false
	}

	return &Predicate{
		Field:    field,
		Operator: op,
		Literal:  literal,
	}, true
}

// convertLiteral converts a literal token into a value of the given kind.
// Strings and times have to be quoted, numbers and booleans must not be.
func convertLiteral(kind Kind, tok token) (Value, bool) {
	switch tok.kind {
	case tokenString:
		switch kind {
		case KindString:
			return StringValue(tok.text), true
		case KindTime:
			return parseTime(tok.text)
		}
	case tokenWord:
		switch kind {
		case KindInt:
			val, err := strconv.ParseInt(tok.text, 10, 64)
			return IntValue(val), err == nil
		case KindUint:
			val, err := strconv.ParseUint(tok.text, 10, 64)
			return UintValue(val), err == nil
		case KindFloat:
			val, err := strconv.ParseFloat(tok.text, 64)
			return FloatValue(val), err == nil
		case KindBool:
			switch strings.ToLower(tok.text) {
			case "true":
				return BoolValue(true), true
			case "false":
				return BoolValue(false), true
			}
		}
	}
	return Value{}, false
}

func parseTime(raw string) (Value, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return TimeValue(parsed), true
		}
	}
	return Value{}, false
}

type tokenKind uint8

const (
	tokenWord tokenKind = iota
	tokenString
	tokenOperator
	tokenAnd
	tokenInvalid
)

type token struct {
	kind tokenKind
	text string
}

func isOperatorRune(r rune) bool {
	return r == '=' || r == '!' || r == '<' || r == '>'
}

func isWordRune(r rune) bool {
	return !unicode.IsSpace(r) && !isOperatorRune(r) && r != '&' && r != '"' && r != '\''
}

// lex splits a filter expression into tokens.
// An unterminated quote swallows the rest of the input into an invalid token.
func lex(expr string) []token {
	var tokens []token
	runes := []rune(expr)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case r == '&':
			i++
			if i < len(runes) && runes[i] == '&' {
				i++
			}
			tokens = append(tokens, token{kind: tokenAnd, text: "&&"})

		case isOperatorRune(r):
			start := i
			for i < len(runes) && isOperatorRune(runes[i]) {
				i++
			}
			text := string(runes[start:i])
			if _, ok := operatorSymbols[text]; ok {
				tokens = append(tokens, token{kind: tokenOperator, text: text})
			} else {
				tokens = append(tokens, token{kind: tokenInvalid, text: text})
			}

		case r == '"' || r == '\'':
			quote := r
			var builder strings.Builder
			i++
			closed := false
			for i < len(runes) {
				if runes[i] == '\\' && i+1 < len(runes) {
					builder.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if runes[i] == quote {
					closed = true
					i++
					break
				}
				builder.WriteRune(runes[i])
				i++
			}
			if closed {
				tokens = append(tokens, token{kind: tokenString, text: builder.String()})
			} else {
				tokens = append(tokens, token{kind: tokenInvalid, text: string(quote) + builder.String()})
			}

		default:
			start := i
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
			text := string(runes[start:i])
			if strings.EqualFold(text, "and") {
				tokens = append(tokens, token{kind: tokenAnd, text: "&&"})
			} else {
				tokens = append(tokens, token{kind: tokenWord, text: text})
			}
		}
	}
	return tokens
}

func splitClauses(tokens []token) [][]token {
	var clauses [][]token
	var current []token
	for _, tok := range tokens {
		if tok.kind == tokenAnd {
			if len(current) > 0 {
				clauses = append(clauses, current)
			}
			current = nil
			continue
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		clauses = append(clauses, current)
	}
	return clauses
}

func renderTokens(tokens []token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		if tok.kind == tokenString {
			parts[i] = strconv.Quote(tok.text)
		} else {
			parts[i] = tok.text
		}
	}
	return strings.Join(parts, " ")
}
