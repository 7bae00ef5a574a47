package reactor

import "strconv"

// Node and Edge mirror the shape of a graph-visualization
// Data type (pkg/components/graphviewer/types.go in the source tree),
// repurposed here as a plain introspection export rather than a
// physics-laid-out canvas: a snapshot of cells and links for debugging
// and for pkg/livetrace to stream to a remote viewer.
type Node struct {
	ID    string
	Kind  string // "cell" or "link"
	Label string
}

type Edge struct {
	Source string
	Target string
	// Kind describes the edge's role in the graph: "input" (cell feeds
	// a link) or "output" (link writes a cell).
	Kind string
}

// Data holds a point-in-time snapshot of the graph.
type Data struct {
	Nodes []Node
	Edges []Edge
}

func (l *Link) snapshotNode() Node {
	return Node{ID: linkNodeID(l.lid), Kind: "link"}
}

func linkNodeID(id uint64) string { return "link:" + strconv.FormatUint(id, 10) }
func cellNodeID(id uint64) string { return "cell:" + strconv.FormatUint(id, 10) }

// Registry tracks a set of cells and links so a live Snapshot can be
// produced on demand without the EventGraph itself needing to know
// about every cell ever created (cells, per the data model, are not
// owned by any one graph).
type Registry struct {
	cells []CellHandle
	links []*Link
	label map[uint64]string
}

// NewRegistry creates an empty snapshot registry.
func NewRegistry() *Registry {
	return &Registry{label: make(map[uint64]string)}
}

// TrackCell adds a cell to the registry under an optional human label.
func (r *Registry) TrackCell(c CellHandle, label string) {
	r.cells = append(r.cells, c)
	if label != "" {
		r.label[c.id()] = label
	}
}

// TrackLink adds a link to the registry under an optional human label.
func (r *Registry) TrackLink(l *Link, label string) {
	r.links = append(r.links, l)
	if label != "" {
		r.label[linkKey(l.lid)] = label
	}
}

// linkKey namespaces link ids away from cell ids in the shared label
// map (both start counting from 1 independently).
func linkKey(id uint64) uint64 { return id | (1 << 63) }

// Snapshot produces a Data view of every tracked cell and link.
func (r *Registry) Snapshot() Data {
	var data Data
	for _, c := range r.cells {
		n := Node{ID: cellNodeID(c.id()), Kind: "cell"}
		if lbl, ok := r.label[c.id()]; ok {
			n.Label = lbl
		}
		data.Nodes = append(data.Nodes, n)
		for _, d := range c.liveDependents() {
			data.Edges = append(data.Edges, Edge{Source: cellNodeID(c.id()), Target: linkNodeID(d.lid), Kind: "input"})
		}
	}
	for _, l := range r.links {
		n := l.snapshotNode()
		if lbl, ok := r.label[linkKey(l.lid)]; ok {
			n.Label = lbl
		}
		data.Nodes = append(data.Nodes, n)
		if l.output != nil {
			data.Edges = append(data.Edges, Edge{Source: linkNodeID(l.lid), Target: cellNodeID(l.output.id()), Kind: "output"})
		}
	}
	return data
}
