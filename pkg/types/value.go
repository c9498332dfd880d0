package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind tags the scalar type held by a Value and declared by a Column.
type Kind uint8

// Value kinds. The zero Kind marks an unset Value.
const (
	KindNumber Kind = iota + 1
	KindText
)

// String returns the schema name of the kind ("number" or "string").
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "string"
	default:
		return "unknown"
	}
}

// ParseKind maps a schema type name back to a Kind.
// Returns ErrInvalidKind for anything other than "number" or "string".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "number":
		return KindNumber, nil
	case "string", "text":
		return KindText, nil
	default:
		return 0, errors.Wrapf(ErrInvalidKind, "%q", s)
	}
}

// Value is a single cell: either a number or a piece of text.
// Construct values with Number or Text; the zero Value is unset.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a text Value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind reports the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether the value was never set.
func (v Value) IsZero() bool { return v.kind == 0 }

// Float returns the number held by v. ok is false for text values.
func (v Value) Float() (f float64, ok bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the text held by v. ok is false for numeric values.
func (v Value) Str() (s string, ok bool) {
	return v.text, v.kind == KindText
}

// IsEmpty reports whether the value counts as NULL for NOT NULL checks:
// unset, or text that is blank.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNumber:
		return false
	case KindText:
		return strings.TrimSpace(v.text) == ""
	default:
		return true
	}
}

// Equal compares kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindNumber {
		return v.num == o.num
	}
	return v.text == o.text
}

// String renders the value the way it would be typed by a user:
// numbers without trailing zeros, text verbatim.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
// An unset value encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON number, string, or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.Wrapf(ErrInvalidValue, "%s", data)
	}
	*v = Number(f)
	return nil
}

// ParseValue converts user input into a Value of the given kind.
// Numeric input is trimmed and parsed as float64.
// Returns ErrInvalidValue when numeric input does not parse or is not finite.
func ParseValue(kind Kind, input string) (Value, error) {
	switch kind {
	case KindNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
		if err != nil {
			return Value{}, errors.Wrapf(ErrInvalidValue, "%q is not a number", input)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, errors.Wrapf(ErrInvalidValue, "%q is not a finite number", input)
		}
		return Number(f), nil
	case KindText:
		return Text(input), nil
	default:
		return Value{}, ErrInvalidKind
	}
}
