package flow

import (
	"fmt"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/kbukum/transflow/step"
)

// WriteDOT renders the step chain as a Graphviz digraph.
func (p *Pipeline) WriteDOT(w io.Writer) error {
	g := graph.New(graph.StringHash, graph.Directed())

	for i, s := range p.steps {
		attrs := []func(*graph.VertexProperties){
			graph.VertexAttribute("shape", "box"),
			graph.VertexAttribute("label", fmt.Sprintf("%d. %s", i+1, s.Name)),
		}
		if n, ok := s.Operation.(*step.Notifier); ok {
			attrs = append(attrs,
				graph.VertexAttribute("style", "bold"),
				graph.VertexAttribute("xlabel", n.Mode().String()),
			)
		}
		if err := g.AddVertex(s.Name, attrs...); err != nil {
			return fmt.Errorf("flow: adding step %s: %w", s.Name, err)
		}
	}
	for i := 1; i < len(p.steps); i++ {
		if err := g.AddEdge(p.steps[i-1].Name, p.steps[i].Name); err != nil {
			return fmt.Errorf("flow: linking %s to %s: %w", p.steps[i-1].Name, p.steps[i].Name, err)
		}
	}

	return draw.DOT(g, w,
		draw.GraphAttribute("label", p.String()),
		draw.GraphAttribute("rankdir", "LR"),
	)
}
