package sqlmirror

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/schemalab/internal/erd"
	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// Constraint name prefixes. The engine reports CHECK failures by name, so
// the prefix tells a non-empty check from a lower-bound check.
const (
	notEmptyPrefix = "nn_"
	minPrefix      = "ck_"
)

// RenderDDL returns one CREATE TABLE statement per table, parents before
// children so foreign keys always reference an existing table.
func RenderDDL(schema types.Schema) ([]string, error) {
	order, err := loadOrder(schema)
	if err != nil {
		return nil, err
	}
	stmts := make([]string, 0, len(order))
	for _, name := range order {
		ts, _ := schema.Table(name)
		stmts = append(stmts, RenderTable(ts))
	}
	return stmts, nil
}

// RenderTable renders the CREATE TABLE statement for one table.
func RenderTable(ts types.TableSchema) string {
	var lines []string
	singlePK := len(ts.PrimaryKey) == 1
	for _, c := range ts.Columns {
		lines = append(lines, "    "+columnDef(ts, c, singlePK))
	}
	if len(ts.PrimaryKey) > 1 {
		lines = append(lines, fmt.Sprintf("    PRIMARY KEY (%s)", identList(ts.PrimaryKey)))
	}
	for _, fk := range ts.ForeignKeys {
		lines = append(lines, fmt.Sprintf("    FOREIGN KEY (%s) REFERENCES %s(%s)",
			ident(fk.Column), ident(fk.RefTable), ident(fk.RefColumn)))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", ident(ts.Name), strings.Join(lines, ",\n"))
}

func columnDef(ts types.TableSchema, c types.Column, singlePK bool) string {
	var b strings.Builder
	b.WriteString(ident(c.Name))
	b.WriteString(" ")
	b.WriteString(sqlType(c.Type, singlePK && ts.IsPrimaryKey(c.Name)))

	if singlePK && ts.IsPrimaryKey(c.Name) {
		b.WriteString(" PRIMARY KEY")
	}
	if ts.IsNotNull(c.Name) && !ts.IsPrimaryKey(c.Name) {
		b.WriteString(" NOT NULL")
		if c.Type == types.KindText {
			fmt.Fprintf(&b, " CONSTRAINT %s CHECK (trim(%s, char(32, 9, 10, 11, 12, 13)) <> '')",
				ident(notEmptyPrefix+ts.Name+"_"+c.Name), ident(c.Name))
		}
	}
	if ts.IsUnique(c.Name) {
		b.WriteString(" UNIQUE")
	}
	for _, ck := range ts.Checks {
		if ck.Column == c.Name {
			fmt.Fprintf(&b, " CONSTRAINT %s CHECK (%s >= %s)",
				ident(minPrefix+ts.Name+"_"+c.Name), ident(c.Name), types.Number(ck.Min))
		}
	}
	if d, ok := ts.DefaultFor(c.Name); ok {
		if d.CurrentTime {
			b.WriteString(" DEFAULT CURRENT_TIMESTAMP")
		} else {
			fmt.Fprintf(&b, " DEFAULT %s", literal(d.Value))
		}
	}
	return b.String()
}

func sqlType(k types.Kind, rowidAlias bool) string {
	switch {
	case k == types.KindNumber && rowidAlias:
		return "INTEGER"
	case k == types.KindNumber:
		return "NUMERIC"
	default:
		return "TEXT"
	}
}

func loadOrder(schema types.Schema) ([]string, error) {
	res := erd.TopoSort(erd.Build(schema))
	if err := erd.ValidateCycles(res); err != nil {
		return nil, errors.Wrap(err, "order tables")
	}
	return res.Order, nil
}

func ident(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func identList(cols []string) string {
	q := make([]string, len(cols))
	for i, c := range cols {
		q[i] = ident(c)
	}
	return strings.Join(q, ", ")
}

func literal(v types.Value) string {
	if v.Kind() == types.KindText {
		return "'" + strings.ReplaceAll(v.String(), "'", "''") + "'"
	}
	if v.IsZero() {
		return "NULL"
	}
	return v.String()
}
