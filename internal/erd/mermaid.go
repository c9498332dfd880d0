package erd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// WriteMermaid writes an erDiagram with one entity block per table and one
// one-to-many relationship per foreign key.
func WriteMermaid(w io.Writer, g *Graph, schema types.Schema) error {
	var b strings.Builder
	b.WriteString("erDiagram\n")

	for _, e := range g.Edges {
		fmt.Fprintf(&b, "    %s ||--o{ %s : %q\n", e.Parent, e.Child, e.FK.Column)
	}
	for _, t := range g.Tables {
		for _, fk := range g.SelfRefs[t] {
			fmt.Fprintf(&b, "    %s ||--o{ %s : %q\n", t, t, fk.Column)
		}
	}

	for _, t := range g.Tables {
		ts, ok := schema.Table(t)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "    %s {\n", t)
		for _, c := range ts.Columns {
			fmt.Fprintf(&b, "        %s %s", c.Type, c.Name)
			if keys := markers(ts, c.Name); keys != "" {
				fmt.Fprintf(&b, " %s", keys)
			}
			b.WriteString("\n")
		}
		b.WriteString("    }\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func markers(ts types.TableSchema, col string) string {
	var m []string
	if ts.IsPrimaryKey(col) {
		m = append(m, "PK")
	}
	if _, ok := ts.ForeignKeyFor(col); ok {
		m = append(m, "FK")
	}
	if ts.IsUnique(col) {
		m = append(m, "UK")
	}
	return strings.Join(m, ", ")
}
