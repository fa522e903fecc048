package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
)

// Store is the in-memory directed multigraph of indexed documents. Vertex
// adjacency is backed by github.com/dominikbraun/graph; edge type and
// metadata (which that library does not carry on the vertex/edge value
// itself) live in the parallel outgoing/incoming indexes below.
type Store struct {
	g        graph.Graph[string, Node]
	nodes    map[string]Node
	outgoing map[string][]Edge
	incoming map[string][]Edge
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		g:        graph.New(nodeHash, graph.Directed()),
		nodes:    make(map[string]Node),
		outgoing: make(map[string][]Edge),
		incoming: make(map[string][]Edge),
	}
}

func nodeHash(n Node) string { return n.ID }

// Load wipes the store and inserts nodes and edges. Edges whose endpoints
// are not present among nodes are silently dropped, as are duplicate edges
// sharing a composite (from, to, type) key.
func (s *Store) Load(nodes []Node, edges []Edge) {
	s.g = graph.New(nodeHash, graph.Directed())
	s.nodes = make(map[string]Node, len(nodes))
	s.outgoing = make(map[string][]Edge)
	s.incoming = make(map[string][]Edge)

	for _, n := range nodes {
		s.nodes[n.ID] = n
		_ = s.g.AddVertex(n)
	}

	seen := make(map[string]bool, len(edges))
	for _, e := range edges {
		if _, ok := s.nodes[e.From]; !ok {
			continue
		}
		if _, ok := s.nodes[e.To]; !ok {
			continue
		}
		key := e.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		_ = s.g.AddEdge(e.From, e.To)
		s.outgoing[e.From] = append(s.outgoing[e.From], e)
		s.incoming[e.To] = append(s.incoming[e.To], e)
	}
}

// GetNode returns the node with the given ID.
func (s *Store) GetNode(id string) (Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// HasNode reports whether id exists in the store.
func (s *Store) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// AllNodes returns every node, in unspecified order.
func (s *Store) AllNodes() []Node {
	out := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	return out
}

// AllEdges returns every edge, in unspecified order.
func (s *Store) AllEdges() []Edge {
	out := make([]Edge, 0)
	for _, edges := range s.outgoing {
		out = append(out, edges...)
	}
	return out
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	n := 0
	for _, edges := range s.outgoing {
		n += len(edges)
	}
	return n
}

// OutgoingEdges returns the edges whose From is nodeId.
func (s *Store) OutgoingEdges(nodeId string) []Edge {
	return append([]Edge(nil), s.outgoing[nodeId]...)
}

// IncomingEdges returns the edges whose To is nodeId.
func (s *Store) IncomingEdges(nodeId string) []Edge {
	return append([]Edge(nil), s.incoming[nodeId]...)
}

// TextSearch performs a case-insensitive linear substring scan over the
// node ID, aliases, and the stringified indexed fields named by fields (or
// all indexed fields, when fields is empty).
func (s *Store) TextSearch(query string, fields []string) []Node {
	q := strings.ToLower(query)
	var wanted map[string]bool
	if len(fields) > 0 {
		wanted = make(map[string]bool, len(fields))
		for _, f := range fields {
			wanted[f] = true
		}
	}

	var out []Node
	for _, n := range s.nodes {
		if nodeMatchesText(n, q, wanted) {
			out = append(out, n)
		}
	}
	return out
}

func nodeMatchesText(n Node, q string, wanted map[string]bool) bool {
	if strings.Contains(strings.ToLower(n.ID), q) {
		return true
	}
	for _, alias := range n.Aliases {
		if strings.Contains(strings.ToLower(alias), q) {
			return true
		}
	}
	for field, value := range n.IndexedFields {
		if wanted != nil && !wanted[field] {
			continue
		}
		if strings.Contains(strings.ToLower(stringifyField(value)), q) {
			return true
		}
	}
	return false
}

func stringifyField(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, " ")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// edgeTypeSet is a small helper for the optional edgeTypes filter.
func edgeTypeSet(types []EdgeType) map[EdgeType]bool {
	if len(types) == 0 {
		return nil
	}
	set := make(map[EdgeType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// TraverseResult is the outcome of a bidirectional bounded BFS.
type TraverseResult struct {
	Nodes []Node // visited nodes, in discovery order (root first)
	Edges []Edge // matching edges considered during the walk, deduplicated
}

// Traverse performs bidirectional breadth-first exploration starting from
// root at distance 0. At each step both outgoing and incoming edges of the
// current node are followed; edgeTypes, when non-empty, restricts which
// edge types are followed; respectLayers, when true, skips edges marked
// layer_violation. Newly discovered endpoints are enqueued at distance+1,
// up to depth inclusive.
func (s *Store) Traverse(root string, depth int, edgeTypes []EdgeType, respectLayers bool) TraverseResult {
	wanted := edgeTypeSet(edgeTypes)

	type queued struct {
		id       string
		distance int
	}

	visitedOrder := []Node{}
	visitedSet := map[string]bool{}
	edgeSeen := map[string]bool{}
	var matchedEdges []Edge

	if root, ok := s.nodes[root]; ok {
		visitedOrder = append(visitedOrder, root)
		visitedSet[root.ID] = true
	} else {
		return TraverseResult{}
	}

	queue := []queued{{id: root, distance: 0}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.distance >= depth {
			continue
		}

		candidates := append(append([]Edge{}, s.outgoing[current.id]...), s.incoming[current.id]...)
		for _, e := range candidates {
			if wanted != nil && !wanted[e.Type] {
				continue
			}
			if respectLayers && e.LayerViolation {
				continue
			}

			if !edgeSeen[e.Key()] {
				edgeSeen[e.Key()] = true
				matchedEdges = append(matchedEdges, e)
			}

			other := e.To
			if other == current.id {
				other = e.From
			}
			if visitedSet[other] {
				continue
			}
			node, ok := s.nodes[other]
			if !ok {
				continue
			}
			visitedSet[other] = true
			visitedOrder = append(visitedOrder, node)
			queue = append(queue, queued{id: other, distance: current.distance + 1})
		}
	}

	return TraverseResult{Nodes: visitedOrder, Edges: matchedEdges}
}

// ReverseTraversal is one predecessor discovered by ReverseTraverse,
// together with the reversed edge path taken from root to reach it.
type ReverseTraversal struct {
	Node     Node
	EdgePath []Edge
}

// ReverseTraverse follows only incoming edges from root, up to depth
// levels, recording for every discovered predecessor (other than root
// itself) the path of edges walked to reach it.
func (s *Store) ReverseTraverse(root string, depth int) []ReverseTraversal {
	if _, ok := s.nodes[root]; !ok {
		return nil
	}

	type queued struct {
		id       string
		distance int
		path     []Edge
	}

	visited := map[string]bool{root: true}
	var out []ReverseTraversal
	queue := []queued{{id: root, distance: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.distance >= depth {
			continue
		}

		for _, e := range s.incoming[current.id] {
			if visited[e.From] {
				continue
			}
			node, ok := s.nodes[e.From]
			if !ok {
				continue
			}
			visited[e.From] = true
			path := append(append([]Edge{}, current.path...), e)
			out = append(out, ReverseTraversal{Node: node, EdgePath: path})
			queue = append(queue, queued{id: e.From, distance: current.distance + 1, path: path})
		}
	}

	return out
}

// FindViolations returns every edge with layer_violation set.
func (s *Store) FindViolations() []Edge {
	var out []Edge
	for _, edges := range s.outgoing {
		for _, e := range edges {
			if e.LayerViolation {
				out = append(out, e)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
