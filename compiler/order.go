package compiler

import (
	"strings"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
)

// typeNode adapts a type to a graph node; the class index is the node id.
type typeNode struct {
	t *StructType
}

func (n typeNode) ID() int64 {
	return int64(n.t.classIndex)
}

// computeEmissionOrder linearizes the registry so that every type appears
// after all elements of its instanceof set. Ties are broken by class index,
// which keeps the order reproducible across runs.
func (m *TypeManager) computeEmissionOrder() ([]*StructType, error) {
	g := multi.NewDirectedGraph()
	for _, t := range m.ordered {
		g.AddNode(typeNode{t})
	}
	for _, t := range m.ordered {
		for _, s := range t.instanceOf.order {
			if s == t {
				continue
			}
			g.SetLine(g.NewLine(typeNode{s}, typeNode{t}))
		}
	}

	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		slices.SortFunc(nodes, func(a, b graph.Node) bool {
			return a.ID() < b.ID()
		})
	})
	if err != nil {
		subject := err.Error()
		if unorderable, ok := err.(topo.Unorderable); ok && len(unorderable) > 0 {
			var names []string
			for _, n := range unorderable[0] {
				names = append(names, n.(typeNode).t.name)
			}
			subject = strings.Join(names, ", ")
		}
		return nil, compileErr(ErrCycleInHierarchy, subject)
	}

	order := make([]*StructType, len(sorted))
	for i, n := range sorted {
		order[i] = n.(typeNode).t
	}
	return order, nil
}
