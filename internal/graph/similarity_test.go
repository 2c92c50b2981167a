package graph

import (
	"math"
	"strings"
	"testing"

	"arxivdigest/internal/domain"
)

func TestSimilarityBoundsAndSymmetry(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"Sparse Attention at Scale", "Sparse Attention at Scale"},
		{"Sparse Attention at Scale", "Attention Is All You Need"},
		{"Graph Neural Networks", "Diffusion Models for Tables"},
		{"a b c d", "c d e f"},
	}

	for _, pair := range pairs {
		ab := Similarity(pair[0], pair[1])
		ba := Similarity(pair[1], pair[0])
		if ab != ba {
			t.Fatalf("similarity not symmetric for %q / %q: %v vs %v", pair[0], pair[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Fatalf("similarity out of bounds for %q / %q: %v", pair[0], pair[1], ab)
		}
	}
}

func TestSimilarityIdenticalAndDisjoint(t *testing.T) {
	t.Parallel()

	if got := Similarity("Sparse Attention at Scale", "sparse attention AT scale"); got != 1 {
		t.Fatalf("identical titles should score 1, got %v", got)
	}
	if got := Similarity("alpha beta", "gamma delta"); got != 0 {
		t.Fatalf("disjoint titles should score 0, got %v", got)
	}
	if got := Similarity("a b c d", "c d e f"); math.Abs(got-2.0/6.0) > 1e-9 {
		t.Fatalf("expected 2/6, got %v", got)
	}
}

func TestBuildDegenerateBatches(t *testing.T) {
	t.Parallel()

	empty := Build(nil)
	if len(empty.Nodes) != 0 || len(empty.Edges) != 0 {
		t.Fatalf("empty batch should yield empty graph, got %+v", empty)
	}

	single := Build([]domain.Paper{{Title: "Lone Paper"}})
	if len(single.Nodes) != 1 || len(single.Edges) != 0 {
		t.Fatalf("singleton batch should yield one node and no edges, got %+v", single)
	}
}

func TestBuildEdgesAboveThreshold(t *testing.T) {
	t.Parallel()

	papers := []domain.Paper{
		{Title: "sparse attention transformers"},
		{Title: "sparse attention kernels"},
		{Title: "unrelated biology survey"},
	}

	g := Build(papers)
	if len(g.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %+v", g.Edges)
	}

	edge := g.Edges[0]
	if edge.From != 0 || edge.To != 1 {
		t.Fatalf("unexpected edge endpoints: %+v", edge)
	}
	if edge.Weight <= SimilarityThreshold {
		t.Fatalf("edge weight should exceed threshold, got %v", edge.Weight)
	}
}

func TestBuildKeepsDuplicateNodes(t *testing.T) {
	t.Parallel()

	// Overlapping windows can re-fetch the same paper; the graph keeps
	// both nodes and links them with weight 1.
	papers := []domain.Paper{
		{ID: "abs/1", Title: "Same Paper Twice"},
		{ID: "abs/1", Title: "Same Paper Twice"},
	}

	g := Build(papers)
	if len(g.Nodes) != 2 {
		t.Fatalf("expected duplicate nodes preserved, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 1 || g.Edges[0].Weight != 1 {
		t.Fatalf("expected a single weight-1 edge, got %+v", g.Edges)
	}
}

func TestDOTExport(t *testing.T) {
	t.Parallel()

	g := Build([]domain.Paper{
		{Title: "sparse attention transformers"},
		{Title: "sparse attention kernels"},
	})

	dot := g.DOT()
	if !strings.HasPrefix(dot, "graph papers {") {
		t.Fatalf("unexpected DOT header: %s", dot)
	}
	if !strings.Contains(dot, `n0 [label="sparse attention transformers"]`) {
		t.Fatalf("DOT missing node label: %s", dot)
	}
	if !strings.Contains(dot, "n0 -- n1") {
		t.Fatalf("DOT missing edge: %s", dot)
	}
}
