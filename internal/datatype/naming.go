package datatype

import (
	"fmt"
	"regexp"
	"strings"

	set "github.com/hashicorp/go-set/v2"
)

var reservedWords = set.From([]string{
	"SELECT", "FROM", "WHERE", "ORDER", "GROUP", "BY",
	"INSERT", "UPDATE", "DELETE", "CREATE", "TABLE", "ALTER", "DROP", "INDEX",
	"PRIMARY", "KEY", "FOREIGN", "REFERENCES", "CONSTRAINT", "UNIQUE",
	"NOT", "NULL", "DEFAULT", "CHECK",
})

var (
	snakeCase    = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	upperCase    = regexp.MustCompile(`[A-Z]`)
	whitespace   = regexp.MustCompile(`\s`)
	leadingDigit = regexp.MustCompile(`^[0-9]`)
)

// NameReport is the verdict on a table or column name.
type NameReport struct {
	Name   string   `json:"name"`
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

// GoodNames and BadNames are the canned naming examples.
var (
	GoodNames = []string{"user_id", "first_name", "created_at", "order_items"}
	BadNames  = []string{"UserID", "first name", "1st_column", "select"}
)

// IsReserved reports whether name is an SQL reserved word.
func IsReserved(name string) bool {
	return reservedWords.Contains(strings.ToUpper(name))
}

// LintName checks name against the naming conventions. Every issue found
// is reported, not just the first.
func LintName(name string) NameReport {
	if name == "" {
		return NameReport{Name: name, Issues: []string{"name is empty"}}
	}
	var issues []string
	if IsReserved(name) {
		issues = append(issues, fmt.Sprintf("%q is an SQL reserved word", name))
	}
	if !snakeCase.MatchString(name) {
		issues = append(issues, "use snake_case (lowercase letters, digits, underscores)")
	}
	if upperCase.MatchString(name) {
		issues = append(issues, "contains uppercase letters; keep names lowercase")
	}
	if whitespace.MatchString(name) {
		issues = append(issues, "contains spaces; use underscores (_) instead")
	}
	if leadingDigit.MatchString(name) {
		issues = append(issues, "starts with a digit")
	}
	return NameReport{Name: name, Valid: len(issues) == 0, Issues: issues}
}
