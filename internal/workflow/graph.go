package workflow

import "fmt"

// Graph is the immutable process definition: an explicit map from node
// name to step function plus a map from node name to routing function.
// It is built once at process start and shared by every invocation.
// Terminal nodes simply have no route entry.
type Graph struct {
	entry  NodeName
	nodes  map[NodeName]NodeFunc
	routes map[NodeName]RouteFunc
}

// NewGraph declares the recruitment topology:
//
//	generate_jd -> [jd approved?] -> post_job -> monitor_applications
//	    -> [enough applicants?] -> optimize_jd -> post_job (loop)
//	                            -> shortlist_candidates
//	    -> [shortlist approved?] -> voice_prescreening -> review_responses
//	    -> [recruiter decision] -> schedule_interview | reject_candidate
//
// The two approval gates exist because AI-generated content requires
// human sign-off before costly downstream actions run; their routing
// functions return WaitForHuman until the recruiter acts.
func NewGraph(nodes *Nodes, cfg Config) *Graph {
	g := &Graph{
		entry:  NodeGenerateJD,
		nodes:  map[NodeName]NodeFunc{},
		routes: map[NodeName]RouteFunc{},
	}

	g.addNode(NodeGenerateJD, nodes.GenerateJD)
	g.addNode(NodePostJob, nodes.PostJob)
	g.addNode(NodeMonitorApplications, nodes.MonitorApplications)
	g.addNode(NodeShortlistCandidates, nodes.ShortlistCandidates)
	g.addNode(NodeVoicePrescreening, nodes.VoicePrescreening)
	g.addNode(NodeReviewResponses, nodes.ReviewResponses)
	g.addNode(NodeScheduleInterview, nodes.ScheduleInterview)
	g.addNode(NodeRejectCandidate, nodes.RejectCandidate)
	g.addNode(NodeOptimizeJD, nodes.OptimizeJD)

	g.addRoute(NodeGenerateJD, CheckJDApproval)
	g.addRoute(NodePostJob, always(NodeMonitorApplications))
	g.addRoute(NodeMonitorApplications, func(s *WorkflowState) NodeName {
		return ShouldRegenerateJD(s, cfg)
	})
	g.addRoute(NodeShortlistCandidates, CheckShortlistApproval)
	g.addRoute(NodeVoicePrescreening, always(NodeReviewResponses))
	g.addRoute(NodeReviewResponses, RecruiterDecision)
	g.addRoute(NodeOptimizeJD, always(NodePostJob))
	// schedule_interview and reject_candidate are terminal.

	return g
}

// always builds an unconditional edge.
func always(next NodeName) RouteFunc {
	return func(*WorkflowState) NodeName { return next }
}

func (g *Graph) addNode(name NodeName, fn NodeFunc) {
	g.nodes[name] = fn
}

func (g *Graph) addRoute(name NodeName, route RouteFunc) {
	g.routes[name] = route
}

// Entry returns the graph's entry node.
func (g *Graph) Entry() NodeName { return g.entry }

// Node looks up a step function by name.
func (g *Graph) Node(name NodeName) (NodeFunc, bool) {
	fn, ok := g.nodes[name]
	return fn, ok
}

// Route looks up the routing function for a node. Terminal nodes return
// false.
func (g *Graph) Route(name NodeName) (RouteFunc, bool) {
	route, ok := g.routes[name]
	return route, ok
}

// HasNode reports whether name is a declared graph node.
func (g *Graph) HasNode(name NodeName) bool {
	_, ok := g.nodes[name]
	return ok
}

// EntryFor maps a persisted current-node value to the node execution
// should start from. Pre-graph statuses map to the entry node; declared
// node names map to themselves.
func (g *Graph) EntryFor(current string) (NodeName, error) {
	switch current {
	case "", StatusPending, StatusJDReview:
		return g.entry, nil
	}
	name := NodeName(current)
	if !g.HasNode(name) {
		return "", fmt.Errorf("unknown node %q", current)
	}
	return name, nil
}
