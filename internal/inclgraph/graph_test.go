package inclgraph

import (
	"reflect"
	"testing"
)

func TestAddInclusionIsIdempotent(t *testing.T) {
	g := New()
	g.AddInclusion("a.h", "main.c")
	g.AddInclusion("a.h", "main.c")

	if g.NodeCount() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.NodeCount())
	}
	if got := g.outEdgePaths("a.h"); !reflect.DeepEqual(got, []string{"main.c"}) {
		t.Errorf("outEdgePaths(a.h) = %v", got)
	}
}

func TestContainsAndIterateFileNames(t *testing.T) {
	g := New()
	g.AddInclusion("b.h", "a.h")
	g.AddInclusion("c.h", "a.h")

	if !g.Contains("a.h") || !g.Contains("b.h") {
		t.Error("expected a.h and b.h to be present")
	}
	if g.Contains("missing.h") {
		t.Error("did not expect missing.h to be present")
	}

	want := []string{"a.h", "b.h", "c.h"}
	if got := g.IterateFileNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("IterateFileNames = %v, want %v", got, want)
	}
}

func TestMergeUnionsNodesAndEdges(t *testing.T) {
	g1 := New()
	g1.AddInclusion("a.h", "main.c")

	g2 := New()
	g2.AddInclusion("b.h", "other.c")
	g2.AddInclusion("a.h", "other.c")

	g1.Merge(g2)

	if g1.NodeCount() != 4 {
		t.Fatalf("expected 4 nodes after merge, got %d", g1.NodeCount())
	}
	if got := g1.outEdgePaths("a.h"); !reflect.DeepEqual(got, []string{"main.c", "other.c"}) {
		t.Errorf("outEdgePaths(a.h) = %v", got)
	}
}
