package campaign

// NodeType categorizes a location graph node.
type NodeType int

const (
	NodeTypeUnspecified NodeType = iota
	NodeTypeRoom
	NodeTypePassage
	NodeTypeStairs
	NodeTypeLandmark
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeRoom:
		return "room"
	case NodeTypePassage:
		return "passage"
	case NodeTypeStairs:
		return "stairs"
	case NodeTypeLandmark:
		return "landmark"
	default:
		return "unspecified"
	}
}

// NodeTypeFromString maps content-pack node type strings to NodeType.
// Unrecognized strings map to NodeTypeRoom so generation never stalls on
// new content vocabulary.
func NodeTypeFromString(raw string) NodeType {
	switch raw {
	case "room":
		return NodeTypeRoom
	case "passage":
		return NodeTypePassage
	case "stairs":
		return NodeTypeStairs
	case "landmark":
		return NodeTypeLandmark
	default:
		return NodeTypeRoom
	}
}

// EdgeState distinguishes a templated edge (known to exist, contents not
// yet rolled) from a materialized one. Materialization happens lazily the
// first time an edge is traversed.
type EdgeState int

const (
	EdgeTemplated EdgeState = iota
	EdgeMaterialized
)

func (s EdgeState) String() string {
	if s == EdgeMaterialized {
		return "materialized"
	}
	return "templated"
}

// Location owns a set of nodes and the edges between them.
type Location struct {
	ID    string
	Name  string
	Nodes map[string]*Node
	Edges map[string]*Edge
}

// NewLocation creates an empty location.
func NewLocation(locationID, name string) *Location {
	return &Location{
		ID:    locationID,
		Name:  name,
		Nodes: make(map[string]*Node),
		Edges: make(map[string]*Edge),
	}
}

// AddNode registers a node with the location.
func (l *Location) AddNode(node *Node) {
	l.Nodes[node.ID] = node
}

// AddEdge registers an edge with the location.
func (l *Location) AddEdge(edge *Edge) {
	l.Edges[edge.ID] = edge
}

// OpenEdgeFrom returns an edge leaving the node with no destination yet.
func (l *Location) OpenEdgeFrom(nodeID string) *Edge {
	for _, edge := range l.Edges {
		if edge.FromNodeID == nodeID && edge.ToNodeID == "" {
			return edge
		}
	}
	return nil
}

// ConnectedNodeIDs returns ids of nodes reachable from nodeID along
// traversable edges, in no particular order.
func (l *Location) ConnectedNodeIDs(nodeID string) []string {
	var out []string
	for _, edge := range l.Edges {
		if edge.FromNodeID == nodeID && edge.ToNodeID != "" {
			out = append(out, edge.ToNodeID)
		}
		if edge.ToNodeID == nodeID && !edge.OneWay && edge.FromNodeID != "" {
			out = append(out, edge.FromNodeID)
		}
	}
	return out
}

// IncomingEdge returns a non-one-way edge arriving at nodeID, if any.
func (l *Location) IncomingEdge(nodeID string) *Edge {
	for _, edge := range l.Edges {
		if edge.ToNodeID == nodeID && !edge.OneWay {
			return edge
		}
	}
	return nil
}

// Node is one explorable point in a location: a room, passage, or similar.
type Node struct {
	ID         string
	Type       NodeType
	Summary    string
	Discovered bool
	VisitCount int
	Traps      []Trap
	Features   []string
}

// Visit marks the node discovered and bumps its visit counter.
func (n *Node) Visit() {
	n.Discovered = true
	n.VisitCount++
}

// Edge connects two nodes. An empty ToNodeID means the far side is still
// unexplored. An edge with a non-empty ToNodeID is traversable in the
// recorded direction; OneWay edges have no reciprocal backtrack edge.
type Edge struct {
	ID         string
	Type       string
	State      EdgeState
	Label      string
	FromNodeID string
	ToNodeID   string
	Locked     bool
	Trapped    bool
	OneWay     bool
}

// Materialize fills in the lazily rolled label and type.
func (e *Edge) Materialize(edgeType, label string) {
	if e.State == EdgeMaterialized {
		return
	}
	if edgeType != "" {
		e.Type = edgeType
	}
	if label != "" {
		e.Label = label
	}
	e.State = EdgeMaterialized
}

// Trap is a hazard attached to a node or edge. Zero-valued skill/DC pairs
// are filled with Investigation defaults by the graph builder.
type Trap struct {
	Name        string
	DetectSkill string
	DetectDC    int
	DisarmSkill string
	DisarmDC    int
	Sprung      bool
}
