package query

import (
	"fmt"

	"github.com/knowledge-driven-dev/kdd-index/internal/graph"
)

// DefaultImpactDepth and DefaultChangeType are §4.9.4's defaults.
const (
	DefaultImpactDepth = 3
	DefaultChangeType  = "modify_attribute"
)

// impactDescriptions is the fixed edge-type -> human phrase table.
var impactDescriptions = map[graph.EdgeType]string{
	graph.EdgeEntityRule:    "Business rule validates this entity",
	graph.EdgeUCAppliesRule: "Use case applies this rule",
	graph.EdgeUCExecutesCmd: "Use case executes this command",
	graph.EdgeEmits:         "Emits this event",
	graph.EdgeConsumes:      "Consumes this event",
	graph.EdgeWikiLink:      "References this artifact",
	graph.EdgeDomainRelation: "Has a domain relationship",
	graph.EdgeReqTracesTo:   "Requirement traces to this artifact",
	graph.EdgeValidates:     "Validates this artifact via BDD scenarios",
}

func impactDescription(t graph.EdgeType) string {
	if d, ok := impactDescriptions[t]; ok {
		return d
	}
	return fmt.Sprintf("Connected via %s", t)
}

// ImpactInput is one impact-query request.
type ImpactInput struct {
	NodeID     string
	ChangeType string
	Depth      int
}

// AffectedNode is one predecessor directly affected by a change.
type AffectedNode struct {
	Node              graph.Node
	EdgeType          graph.EdgeType
	ImpactDescription string
}

// TransitiveImpact is one predecessor reached beyond the direct ring.
type TransitiveImpact struct {
	Node      graph.Node
	Path      []string // node IDs, root first
	EdgeTypes []graph.EdgeType
}

// ScenarioToRerun names a VALIDATES source affected by the change.
type ScenarioToRerun struct {
	FeatureNodeID string
	Reason        string
}

// ImpactResult is the outcome of an impact query.
type ImpactResult struct {
	Root                  graph.Node
	ChangeType            string
	DirectlyAffected      []AffectedNode
	TransitivelyAffected  []TransitiveImpact
	ScenariosToRerun      []ScenarioToRerun
	TotalDirectly         int
	TotalTransitively     int
}

// Impact computes what would need attention if NodeID changed.
func (e *Engine) Impact(in ImpactInput) (ImpactResult, error) {
	root, ok := e.Graph.GetNode(in.NodeID)
	if !ok {
		return ImpactResult{}, NewError(ErrNodeNotFound, fmt.Sprintf("node not found: %s", in.NodeID))
	}

	changeType := in.ChangeType
	if changeType == "" {
		changeType = DefaultChangeType
	}

	directIDs := map[string]bool{}
	var directly []AffectedNode
	for _, edge := range e.Graph.IncomingEdges(in.NodeID) {
		node, ok := e.Graph.GetNode(edge.From)
		if !ok {
			continue
		}
		directIDs[node.ID] = true
		directly = append(directly, AffectedNode{
			Node:              node,
			EdgeType:          edge.Type,
			ImpactDescription: impactDescription(edge.Type),
		})
	}

	var transitively []TransitiveImpact
	if in.Depth > 1 {
		for _, rt := range e.Graph.ReverseTraverse(in.NodeID, in.Depth) {
			if rt.Node.ID == in.NodeID || directIDs[rt.Node.ID] {
				continue
			}
			path := []string{in.NodeID}
			edgeTypes := make([]graph.EdgeType, 0, len(rt.EdgePath))
			for _, edge := range rt.EdgePath {
				path = append(path, edge.From)
				edgeTypes = append(edgeTypes, edge.Type)
			}
			transitively = append(transitively, TransitiveImpact{Node: rt.Node, Path: path, EdgeTypes: edgeTypes})
		}
	}

	affected := map[string]bool{in.NodeID: true}
	for id := range directIDs {
		affected[id] = true
	}
	for _, t := range transitively {
		affected[t.Node.ID] = true
	}

	var scenarios []ScenarioToRerun
	for _, edge := range e.Graph.AllEdges() {
		if edge.Type != graph.EdgeValidates || !affected[edge.To] {
			continue
		}
		scenarios = append(scenarios, ScenarioToRerun{
			FeatureNodeID: edge.From,
			Reason:        fmt.Sprintf("Validates %s which is affected", edge.To),
		})
	}

	return ImpactResult{
		Root:                 root,
		ChangeType:           changeType,
		DirectlyAffected:     directly,
		TransitivelyAffected: transitively,
		ScenariosToRerun:     scenarios,
		TotalDirectly:        len(directly),
		TotalTransitively:    len(transitively),
	}, nil
}
