package erd

import "github.com/cockroachdb/errors"

// TopoResult holds the result of topological sorting.
type TopoResult struct {
	// Order lists parents before children.
	Order []string
	// HasCycle is true if some tables could not be ordered.
	HasCycle bool
	// CycleTables lists the tables left over by a cycle.
	CycleTables []string
}

// TopoSort orders every table parents-first using Kahn's algorithm. Ties
// keep schema order, so the result is deterministic.
func TopoSort(g *Graph) TopoResult {
	inDegree := make(map[string]int, len(g.Tables))
	for _, t := range g.Tables {
		inDegree[t] = len(g.Parents[t])
	}

	var queue []string
	for _, t := range g.Tables {
		if inDegree[t] == 0 {
			queue = append(queue, t)
		}
	}

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, child := range g.Children[node] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	result := TopoResult{Order: order}
	if len(order) < len(g.Tables) {
		result.HasCycle = true
		for _, t := range g.Tables {
			if inDegree[t] > 0 {
				result.CycleTables = append(result.CycleTables, t)
			}
		}
	}
	return result
}

// ValidateCycles returns ErrCycle naming the tables involved, or nil.
func ValidateCycles(result TopoResult) error {
	if !result.HasCycle {
		return nil
	}
	return errors.Wrapf(ErrCycle, "%v", result.CycleTables)
}
