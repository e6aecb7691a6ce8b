package gwsynth

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/emicklei/dot"
)

// GraphFormat selects the graph notation written by WriteGraph.
type GraphFormat string

const (
	// GraphDOT is Graphviz DOT.
	GraphDOT GraphFormat = "dot"
	// GraphMermaid is a Mermaid flowchart for markdown rendering.
	GraphMermaid GraphFormat = "mermaid"
)

// WriteGraph writes the tree as a directed graph: resources link to their
// children and methods, methods link to their validation model. Key-protected
// methods are drawn bold.
func WriteGraph(w io.Writer, t *Tree, format GraphFormat) error {
	g := buildGraph(t)

	var out string
	switch format {
	case GraphDOT, "":
		out = g.String()
	case GraphMermaid:
		out = dot.MermaidGraph(g, dot.MermaidTopToBottom)
	default:
		return errors.Newf("unknown graph format %q", format)
	}

	if _, err := io.WriteString(w, out); err != nil {
		return errors.Wrap(err, "write graph")
	}
	return nil
}

func buildGraph(t *Tree) *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "LR")
	g.NodeInitializer(func(n dot.Node) {
		n.Attr("fontname", "Arial")
	})

	models := map[string]dot.Node{}
	for _, vm := range t.ModelsByName() {
		n := g.Node("model " + vm.Name).Label(vm.Name)
		n.Attr("shape", "note")
		models[vm.Name] = n
	}

	_ = t.Walk(func(r *Resource) error {
		rn := g.Node(r.Path).Label(r.Path)
		rn.Attr("shape", "box")

		for _, c := range r.Children() {
			g.Edge(rn, g.Node(c.Path))
		}

		for _, m := range r.Methods {
			mn := g.Node(string(m.HTTPMethod) + " " + r.Path).Label(string(m.HTTPMethod))
			mn.Attr("shape", "ellipse")
			if m.APIKeyRequired {
				mn.Attr("style", "bold")
			}
			g.Edge(rn, mn)

			if m.ValidationModel != nil {
				g.Edge(mn, models[m.ValidationModel.Name]).Attr("style", "dashed")
			}
		}
		return nil
	})

	return g
}
