// Package datatype holds the data-type and naming helpers: which SQL type
// fits a value, whether a value fits a type, and whether a name follows
// the naming conventions.
package datatype

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// String length limits.
const (
	charLimit    = 2
	varcharLimit = 255
	varcharFloor = 50
)

// Example is a sample value with the type recommended for it.
type Example struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Recommended string `json:"recommended"`
}

// StringExamples are the canned string samples.
var StringExamples = []Example{
	{Label: "state code", Value: "WA", Recommended: "CHAR(2)"},
	{Label: "username", Value: "john_doe", Recommended: "VARCHAR(50)"},
	{Label: "product description", Value: "This is a very long product description that keeps going well past any sensible column width, the kind of free text that belongs in a TEXT column rather than a VARCHAR: materials, care instructions, warranty terms, shipping notes, and anything else marketing decides to add.", Recommended: "TEXT"},
}

// RecommendString picks CHAR, VARCHAR, or TEXT by character count.
func RecommendString(v string) string {
	n := utf8.RuneCountInString(v)
	switch {
	case n <= charLimit:
		return fmt.Sprintf("CHAR(%d)", charLimit)
	case n <= varcharLimit:
		return fmt.Sprintf("VARCHAR(%d)", max(n, varcharFloor))
	default:
		return "TEXT"
	}
}

// CharFits reports whether v fits a CHAR(n) or VARCHAR(n) column.
func CharFits(v string, n int) bool {
	return utf8.RuneCountInString(v) <= n
}

// DateTimeExample shows one temporal type rendered at a given instant.
type DateTimeExample struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Use   string `json:"use"`
}

// FormatDateTime renders t the way DEFAULT created_at values are stored.
func FormatDateTime(t time.Time) string { return t.Format(types.LocalDateTime) }

// FormatDate renders the date part of t.
func FormatDate(t time.Time) string { return t.Format(types.LocalDate) }

// DateTimeExamples renders t as each temporal SQL type.
func DateTimeExamples(t time.Time) []DateTimeExample {
	return []DateTimeExample{
		{Type: "DATE", Value: t.Format(time.DateOnly), Use: "birthdays, due dates"},
		{Type: "TIME", Value: t.Format(time.TimeOnly), Use: "opening hours"},
		{Type: "DATETIME", Value: t.Format(time.DateTime), Use: "appointments in local time"},
		{Type: "TIMESTAMP", Value: t.UTC().Format(types.ISOTimestamp), Use: "created_at, updated_at (UTC)"},
		{Type: "DATE (display)", Value: FormatDate(t), Use: "dates shown to users"},
		{Type: "DATETIME (display)", Value: FormatDateTime(t), Use: "DEFAULT created_at in the constraint demos"},
	}
}
