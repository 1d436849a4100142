package values

// Node is a graph node, generalised with the element-id strings
// introduced by newer Bolt versions.
type Node struct {
	ID         int64
	ElementID  string
	Labels     []string
	Properties *Map
}

// Kind implements Value.
func (Node) Kind() Kind { return KindNode }

// Relationship is a graph relationship bound to its endpoints. StartID/
// EndID may be rebound exactly once during path assembly; see Path.
type Relationship struct {
	ID             int64
	ElementID      string
	StartID        int64
	StartElementID string
	EndID          int64
	EndElementID   string
	Type           string
	Properties     *Map

	rebound bool
}

// Kind implements Value.
func (*Relationship) Kind() Kind { return KindRelationship }

// rebind swaps the relationship's endpoints. It may be called at most once,
// and only by path assembly before the Path escapes the unpacker.
func (r *Relationship) rebind(startID, endID int64, startElementID, endElementID string) error {
	if r.rebound {
		return errRelationshipAlreadyRebound
	}
	r.StartID, r.EndID = startID, endID
	r.StartElementID, r.EndElementID = startElementID, endElementID
	r.rebound = true
	return nil
}

// UnboundRelationship is the wire-level relationship without endpoints,
// Callers unpacking a PackStream path structure build these directly from
// the wire relationship structure before handing them to BuildPath; it is
// never itself a Value.
type UnboundRelationship struct {
	ID         int64
	ElementID  string
	Type       string
	Properties *Map
}

// Path is an alternating Node/Relationship/Node/... sequence of odd length
// >= 1, reconstructed from the wire's (nodes, unboundRels, sequence)
// shape.
type Path struct {
	nodes         []*Node
	relationships []*Relationship
}

// Kind implements Value.
func (*Path) Kind() Kind { return KindPath }

// Nodes returns the path's nodes in traversal order. The caller must not
// mutate the returned slice.
func (p *Path) Nodes() []*Node {
	return p.nodes
}

// Relationships returns the path's relationships in traversal order,
// already bound to their correct (possibly reversed) endpoints. The caller
// must not mutate the returned slice.
func (p *Path) Relationships() []*Relationship {
	return p.relationships
}

// BuildPath reconstructs a Path from the wire-level unique-nodes/
// unique-rels/sequence triple. sequence holds
// (relIndex, nodeIndex) pairs: relIndex is 1-based into rels, and its sign
// selects the relationship's endpoint binding: a positive relIndex binds
// start->end from the node reached so far to the node named by nodeIndex; a
// negative relIndex reverses that binding (start = the node named by
// nodeIndex, end = the node reached so far). nodeIndex is 0-based into
// nodes. The first node in the path is nodes[0], identified in the wire
// format as index 0 before the sequence begins.
func BuildPath(nodes []*Node, rels []*UnboundRelationship, sequence []int64) (*Path, error) {
	if len(nodes) == 0 {
		return nil, errPathEmptyNodes
	}
	if len(sequence)%2 != 0 {
		return nil, errPathOddSequence
	}

	p := &Path{nodes: make([]*Node, 0, len(sequence)/2+1), relationships: make([]*Relationship, 0, len(sequence)/2)}
	current := nodes[0]
	p.nodes = append(p.nodes, current)

	for i := 0; i < len(sequence); i += 2 {
		relIdx := sequence[i]
		nodeIdx := sequence[i+1]

		reversed := relIdx < 0
		absIdx := relIdx
		if reversed {
			absIdx = -absIdx
		}
		absIdx-- // 1-based -> 0-based
		if absIdx < 0 || int(absIdx) >= len(rels) {
			return nil, errPathRelIndex
		}
		if nodeIdx < 0 || int(nodeIdx) >= len(nodes) {
			return nil, errPathNodeIndex
		}
		next := nodes[nodeIdx]
		u := rels[absIdx]

		rel := &Relationship{
			ID:         u.ID,
			ElementID:  u.ElementID,
			Type:       u.Type,
			Properties: u.Properties,
		}
		startID, startElementID, endID, endElementID := current.ID, current.ElementID, next.ID, next.ElementID
		if reversed {
			startID, startElementID, endID, endElementID = next.ID, next.ElementID, current.ID, current.ElementID
		}
		if err := rel.rebind(startID, endID, startElementID, endElementID); err != nil {
			return nil, err
		}

		p.relationships = append(p.relationships, rel)
		p.nodes = append(p.nodes, next)
		current = next
	}

	return p, nil
}
