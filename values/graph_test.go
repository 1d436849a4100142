package values

import "testing"

func node(id int64, elementID string) *Node {
	return &Node{ID: id, ElementID: elementID, Properties: NewMap()}
}

func unbound(id int64, typ, elementID string) *UnboundRelationship {
	return &UnboundRelationship{ID: id, ElementID: elementID, Type: typ, Properties: NewMap()}
}

func TestBuildPathWorkedExample(t *testing.T) {
	nodes := []*Node{node(0, "n0"), node(1, "n1")}
	rels := []*UnboundRelationship{unbound(10, "KNOWS", "r1"), unbound(11, "KNOWS", "r2")}
	sequence := []int64{1, 1, -2, 0}

	path, err := BuildPath(nodes, rels, sequence)
	if err != nil {
		t.Fatalf("BuildPath: %v", err)
	}

	gotNodes := path.Nodes()
	if len(gotNodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(gotNodes))
	}
	if gotNodes[0].ElementID != "n0" || gotNodes[1].ElementID != "n1" || gotNodes[2].ElementID != "n0" {
		t.Fatalf("unexpected node order: %s %s %s", gotNodes[0].ElementID, gotNodes[1].ElementID, gotNodes[2].ElementID)
	}

	gotRels := path.Relationships()
	if gotRels[0].StartElementID != "n0" || gotRels[0].EndElementID != "n1" {
		t.Errorf("r1: got %s->%s, want n0->n1", gotRels[0].StartElementID, gotRels[0].EndElementID)
	}
	if gotRels[1].StartElementID != "n0" || gotRels[1].EndElementID != "n1" {
		t.Errorf("r2 (reversed): got %s->%s, want n0->n1", gotRels[1].StartElementID, gotRels[1].EndElementID)
	}
}

func TestBuildPathEmptyNodesFails(t *testing.T) {
	if _, err := BuildPath(nil, nil, nil); err == nil {
		t.Fatal("expected error for empty node list")
	}
}

func TestBuildPathOddSequenceFails(t *testing.T) {
	nodes := []*Node{node(0, "n0")}
	if _, err := BuildPath(nodes, nil, []int64{1}); err == nil {
		t.Fatal("expected error for odd-length sequence")
	}
}

func TestBuildPathRelIndexOutOfRangeFails(t *testing.T) {
	nodes := []*Node{node(0, "n0"), node(1, "n1")}
	rels := []*UnboundRelationship{unbound(10, "KNOWS", "r1")}
	if _, err := BuildPath(nodes, rels, []int64{2, 1}); err == nil {
		t.Fatal("expected error for out-of-range relationship index")
	}
}

func TestBuildPathNodeIndexOutOfRangeFails(t *testing.T) {
	nodes := []*Node{node(0, "n0")}
	rels := []*UnboundRelationship{unbound(10, "KNOWS", "r1")}
	if _, err := BuildPath(nodes, rels, []int64{1, 5}); err == nil {
		t.Fatal("expected error for out-of-range node index")
	}
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", Integer(2))
	m.Set("a", Integer(1))
	m.Set("b", Integer(20))

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("got keys %v, want [b a]", keys)
	}
	v, ok := m.Get("b")
	if !ok || v.(Integer) != 20 {
		t.Fatalf("got (%v, %v), want (20, true)", v, ok)
	}
}
