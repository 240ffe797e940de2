package depgraph

import "sort"

// topCentralityLimit caps the centrality ranking in Stats.
const topCentralityLimit = 5

// Edge is one resolved file-to-file import.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a directed dependency graph over scanned files. Nodes keep
// insertion order, which downstream tie-breaks rely on; duplicate edges
// between the same pair collapse to one.
type Graph struct {
	nodes     []string
	nodeIndex map[string]int
	edges     []Edge
	edgeSet   map[Edge]struct{}
	inDegree  map[string]int
	outDegree map[string]int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodeIndex: make(map[string]int),
		edgeSet:   make(map[Edge]struct{}),
		inDegree:  make(map[string]int),
		outDegree: make(map[string]int),
	}
}

// AddNode records a node. Re-adding an existing node keeps its original
// insertion position.
func (g *Graph) AddNode(path string) {
	if _, exists := g.nodeIndex[path]; exists {
		return
	}

	g.nodeIndex[path] = len(g.nodes)
	g.nodes = append(g.nodes, path)
}

// AddEdge records a directed edge. Duplicates are dropped; both endpoints
// must already be nodes for degree bookkeeping to stay consistent.
func (g *Graph) AddEdge(source, target string) {
	edge := Edge{Source: source, Target: target}
	if _, dup := g.edgeSet[edge]; dup {
		return
	}

	g.edgeSet[edge] = struct{}{}
	g.edges = append(g.edges, edge)
	g.outDegree[source]++
	g.inDegree[target]++
}

// HasNode reports whether path is a node.
func (g *Graph) HasNode(path string) bool {
	_, exists := g.nodeIndex[path]

	return exists
}

// Nodes returns all node paths in insertion order.
func (g *Graph) Nodes() []string {
	nodes := make([]string, len(g.nodes))
	copy(nodes, g.nodes)

	return nodes
}

// Edges returns all edges in first-encounter order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)

	return edges
}

// Degree returns in-degree plus out-degree for a node.
func (g *Graph) Degree(path string) int {
	return g.inDegree[path] + g.outDegree[path]
}

// Centrality is one node's degree-centrality ranking entry.
type Centrality struct {
	File       string  `json:"file"`
	Degree     int     `json:"degree"`
	Centrality float64 `json:"centrality"`
}

// Stats are the derived graph statistics.
type Stats struct {
	NodeCount     int          `json:"node_count"`
	EdgeCount     int          `json:"edge_count"`
	Density       float64      `json:"density"`
	AverageDegree float64      `json:"average_degree"`
	TopCentrality []Centrality `json:"top_centrality"`
}

// Stats computes the derived statistics on demand. Density and centrality
// are zero for graphs with at most one node.
func (g *Graph) Stats() Stats {
	stats := Stats{
		NodeCount:     len(g.nodes),
		EdgeCount:     len(g.edges),
		TopCentrality: []Centrality{},
	}

	if stats.NodeCount == 0 {
		return stats
	}

	if stats.NodeCount > 1 {
		pairs := float64(stats.NodeCount) * float64(stats.NodeCount-1)
		stats.Density = float64(stats.EdgeCount) / pairs
	}

	degreeSum := 0
	for _, node := range g.nodes {
		degreeSum += g.Degree(node)
	}

	stats.AverageDegree = float64(degreeSum) / float64(stats.NodeCount)
	stats.TopCentrality = g.topCentrality()

	return stats
}

// topCentrality ranks nodes by degree centrality descending. The stable
// sort keeps ties in node insertion order.
func (g *Graph) topCentrality() []Centrality {
	ranked := make([]Centrality, 0, len(g.nodes))

	for _, node := range g.nodes {
		entry := Centrality{File: node, Degree: g.Degree(node)}
		if len(g.nodes) > 1 {
			entry.Centrality = float64(entry.Degree) / float64(len(g.nodes)-1)
		}

		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Degree > ranked[j].Degree })

	if len(ranked) > topCentralityLimit {
		ranked = ranked[:topCentralityLimit]
	}

	return ranked
}
