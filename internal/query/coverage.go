package query

import (
	"fmt"
	"math"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
)

// coverageRule is one named check for a kind: "does this node have at
// least one incident edge of Type, optionally restricted to an endpoint
// of EndpointKind". EndpointKind is empty when any endpoint kind counts.
type coverageRule struct {
	Name         string
	Type         graph.EdgeType
	EndpointKind kindrules.Kind
}

// coverageRules is keyed by node kind. Only the five kinds named here
// carry a defined set of checks; any other kind is UNKNOWN_KIND for
// coverage purposes.
var coverageRules = map[kindrules.Kind][]coverageRule{
	kindrules.KindEntity: {
		{Name: "events", Type: graph.EdgeEmits},
		{Name: "business_rules", Type: graph.EdgeEntityRule},
		{Name: "use_cases", Type: graph.EdgeWikiLink, EndpointKind: kindrules.KindUseCase},
	},
	kindrules.KindCommand: {
		{Name: "events", Type: graph.EdgeEmits},
		{Name: "use_cases", Type: graph.EdgeUCExecutesCmd},
		{Name: "requirements", Type: graph.EdgeReqTracesTo},
	},
	kindrules.KindUseCase: {
		{Name: "business_rules", Type: graph.EdgeUCAppliesRule},
		{Name: "commands", Type: graph.EdgeUCExecutesCmd},
		{Name: "objectives", Type: graph.EdgeUCStory},
		{Name: "scenarios", Type: graph.EdgeValidates},
	},
	kindrules.KindBusinessRule: {
		{Name: "entities", Type: graph.EdgeEntityRule},
		{Name: "use_cases", Type: graph.EdgeUCAppliesRule},
		{Name: "scenarios", Type: graph.EdgeValidates},
	},
	kindrules.KindRequirement: {
		{Name: "traces", Type: graph.EdgeReqTracesTo},
		{Name: "scenarios", Type: graph.EdgeValidates},
	},
}

// CoverageCheck is one rule's outcome for a node.
type CoverageCheck struct {
	Name   string
	Status string // "covered" or "missing"
}

// CoverageResult is the outcome of a coverage query.
type CoverageResult struct {
	Node             graph.Node
	Checks           []CoverageCheck
	CoveredCount     int
	TotalCount       int
	CoveragePercent  float64
}

// Coverage reports, for the rules defined on nodeId's kind, whether each
// is satisfied by at least one incident edge of the right type (and, for
// rules that name one, the right other-endpoint kind).
func (e *Engine) Coverage(nodeID string) (CoverageResult, error) {
	node, ok := e.Graph.GetNode(nodeID)
	if !ok {
		return CoverageResult{}, NewError(ErrNodeNotFound, fmt.Sprintf("node not found: %s", nodeID))
	}

	rules, ok := coverageRules[node.Kind]
	if !ok {
		return CoverageResult{}, NewError(ErrUnknownKind, fmt.Sprintf("no coverage rules defined for kind: %s", node.Kind))
	}

	incident := append(e.Graph.OutgoingEdges(nodeID), e.Graph.IncomingEdges(nodeID)...)

	checks := make([]CoverageCheck, 0, len(rules))
	covered := 0
	for _, rule := range rules {
		if ruleSatisfied(e.Graph, incident, nodeID, rule) {
			checks = append(checks, CoverageCheck{Name: rule.Name, Status: "covered"})
			covered++
		} else {
			checks = append(checks, CoverageCheck{Name: rule.Name, Status: "missing"})
		}
	}

	total := len(rules)
	percent := 0.0
	if total > 0 {
		percent = math.Round(1000*float64(covered)/float64(total)) / 10
	}

	return CoverageResult{
		Node:            node,
		Checks:          checks,
		CoveredCount:    covered,
		TotalCount:      total,
		CoveragePercent: percent,
	}, nil
}

func ruleSatisfied(g *graph.Store, incident []graph.Edge, nodeID string, rule coverageRule) bool {
	for _, edge := range incident {
		if edge.Type != rule.Type {
			continue
		}
		if rule.EndpointKind == "" {
			return true
		}
		other := edge.To
		if other == nodeID {
			other = edge.From
		}
		if n, ok := g.GetNode(other); ok && n.Kind == rule.EndpointKind {
			return true
		}
	}
	return false
}
