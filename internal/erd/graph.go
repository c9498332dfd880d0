// Package erd derives the table relationship graph from the schema's
// foreign keys, orders tables parents-first, and renders Mermaid ER
// diagrams.
package erd

import (
	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/schemalab/pkg/types"
)

// Edge is one foreign key, pointing from the child table to its parent.
type Edge struct {
	FK     types.ForeignKey `json:"fk"`
	Child  string           `json:"child"`
	Parent string           `json:"parent"`
}

// Graph is a directed graph of tables built from foreign keys.
type Graph struct {
	// Tables lists every table in schema order.
	Tables []string

	// Edges are the non-self-referential foreign keys (child -> parent).
	Edges []Edge

	// SelfRefs holds foreign keys that point back at their own table.
	SelfRefs map[string][]types.ForeignKey

	// Parents maps child -> parents, Children maps parent -> children.
	Parents  map[string][]string
	Children map[string][]string
}

// ErrCycle is returned when the foreign keys form a loop.
var ErrCycle = errors.New("circular dependency between tables")

// Build constructs the graph. Foreign keys naming a table outside the
// schema are ignored.
func Build(schema types.Schema) *Graph {
	g := &Graph{
		Tables:   schema.Names(),
		SelfRefs: make(map[string][]types.ForeignKey),
		Parents:  make(map[string][]string),
		Children: make(map[string][]string),
	}
	known := make(map[string]bool, len(schema))
	for _, name := range g.Tables {
		known[name] = true
	}
	for _, ts := range schema {
		for _, fk := range ts.ForeignKeys {
			if !known[fk.RefTable] {
				continue
			}
			if fk.RefTable == ts.Name {
				g.SelfRefs[ts.Name] = append(g.SelfRefs[ts.Name], fk)
				continue
			}
			g.Edges = append(g.Edges, Edge{FK: fk, Child: ts.Name, Parent: fk.RefTable})
			g.Parents[ts.Name] = appendOnce(g.Parents[ts.Name], fk.RefTable)
			g.Children[fk.RefTable] = appendOnce(g.Children[fk.RefTable], ts.Name)
		}
	}
	return g
}

// Roots returns the tables with no parents, in schema order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, t := range g.Tables {
		if len(g.Parents[t]) == 0 {
			roots = append(roots, t)
		}
	}
	return roots
}

func appendOnce(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
