package graph

import (
	"strings"

	"arxivdigest/internal/domain"
)

// SimilarityThreshold is the minimum title similarity for an edge.
const SimilarityThreshold = 0.3

// Node is one paper in the relationship graph, keyed by batch index.
type Node struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

// Edge connects two related papers with their similarity as weight.
type Edge struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
}

// Graph is the pairwise relatedness graph over one batch. It is rebuilt
// fresh every run and never persisted across runs.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Build computes the relationship graph for a batch. Every paper becomes a
// node, duplicates included; an edge is added for each unordered pair
// whose title similarity exceeds the threshold. Batches of size 0 or 1
// yield that many nodes and no edges.
func Build(papers []domain.Paper) Graph {
	g := Graph{Nodes: make([]Node, 0, len(papers))}

	for i, paper := range papers {
		g.Nodes = append(g.Nodes, Node{Index: i, Title: paper.Title})
	}

	for i := 0; i < len(papers); i++ {
		for j := i + 1; j < len(papers); j++ {
			similarity := Similarity(papers[i].Title, papers[j].Title)
			if similarity > SimilarityThreshold {
				g.Edges = append(g.Edges, Edge{From: i, To: j, Weight: similarity})
			}
		}
	}

	return g
}

// Similarity is the Jaccard index of the whitespace-split, lowercased
// token sets of two titles. Two titles with no tokens at all score 0.
func Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	union := len(setB)
	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(title string) map[string]struct{} {
	tokens := strings.Fields(strings.ToLower(title))
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}
