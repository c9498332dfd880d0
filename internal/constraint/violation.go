package constraint

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// Kind names the constraint a row violated.
type Kind string

// Constraint kinds, spelled the way SQL spells them.
const (
	KindNotNull    Kind = "NOT NULL"
	KindPrimaryKey Kind = "PRIMARY KEY"
	KindUnique     Kind = "UNIQUE"
	KindForeignKey Kind = "FOREIGN KEY"
	KindCheck      Kind = "CHECK"
)

// ErrViolation is the sentinel every *Violation wraps.
var ErrViolation = errors.New("constraint violation")

// Violation describes a rejected row. The write it guarded was never issued.
type Violation struct {
	Kind    Kind
	Table   string
	Column  string
	Value   types.Value
	Message string
}

func (v *Violation) Error() string { return v.Message }

// Unwrap lets errors.Is match ErrViolation.
func (v *Violation) Unwrap() error { return ErrViolation }

// AsViolation extracts the *Violation from err, if there is one.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

func newViolation(kind Kind, table, column string, value types.Value, format string, args ...any) *Violation {
	return &Violation{
		Kind:    kind,
		Table:   table,
		Column:  column,
		Value:   value,
		Message: fmt.Sprintf("%s constraint violation: ", kind) + fmt.Sprintf(format, args...),
	}
}

// display renders a value inside a message: numbers bare, text quoted.
func display(v types.Value) string {
	if v.Kind() == types.KindText {
		return fmt.Sprintf("%q", v.String())
	}
	return v.String()
}
