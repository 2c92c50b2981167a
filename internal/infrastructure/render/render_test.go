package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"arxivdigest/internal/domain"
)

func TestWordFrequencies(t *testing.T) {
	t.Parallel()

	words := wordFrequencies("Sparse models, sparse kernels: sparse everything. The and for.")
	if len(words) == 0 {
		t.Fatalf("expected words, got none")
	}
	if words[0].word != "sparse" || words[0].count != 3 {
		t.Fatalf("expected 'sparse' x3 first, got %+v", words[0])
	}
	for _, wc := range words {
		if wc.word == "the" || wc.word == "and" || wc.word == "for" {
			t.Fatalf("stopword leaked into cloud: %s", wc.word)
		}
	}
}

func TestWordCloudSVGDeterministic(t *testing.T) {
	t.Parallel()

	text := "diffusion diffusion transformers alignment alignment alignment"
	first := wordCloudSVG(text)
	second := wordCloudSVG(text)
	if first != second {
		t.Fatalf("word cloud output is not deterministic")
	}
	if !strings.Contains(first, ">alignment</text>") {
		t.Fatalf("most frequent word missing from cloud: %s", first)
	}
}

func TestWordCloudSVGEmptyText(t *testing.T) {
	t.Parallel()

	svg := wordCloudSVG("")
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Fatalf("expected valid empty svg, got %s", svg)
	}
}

func TestRenderWritesAllArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	renderer := NewVisualRenderer(dir, "", nil)

	bundle := domain.ResultsBundle{
		Analysis:    "per-paper analysis",
		Trends:      "1. **Sparse models** are everywhere",
		Summary:     "sparse attention dominated this window",
		TopArticles: "1. Sparse Attention at Scale",
	}
	batch := domain.Batch{
		Start: time.Date(2024, time.June, 7, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		Papers: []domain.Paper{
			{Title: "sparse attention transformers"},
			{Title: "sparse attention kernels"},
		},
	}

	if err := renderer.Render(bundle, batch); err != nil {
		t.Fatalf("Render error: %v", err)
	}

	for _, name := range []string{WordCloudFileName, SummaryPageFileName, GraphFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}

	page, err := os.Open(filepath.Join(dir, SummaryPageFileName))
	if err != nil {
		t.Fatalf("open summary page: %v", err)
	}
	defer page.Close()

	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		t.Fatalf("parse summary page: %v", err)
	}

	if title := doc.Find("h1").First().Text(); title != "ArXiv AI/ML Daily Summary" {
		t.Fatalf("unexpected page title: %s", title)
	}
	if src, _ := doc.Find("img").First().Attr("src"); src != WordCloudFileName {
		t.Fatalf("unexpected word cloud src: %s", src)
	}
	if strong := doc.Find("strong").First().Text(); strong != "Sparse models" {
		t.Fatalf("markdown trends not rendered: %q", strong)
	}
}

func TestRenderEmptyBatch(t *testing.T) {
	t.Parallel()

	renderer := NewVisualRenderer(t.TempDir(), "Digest", nil)
	bundle := domain.ResultsBundle{Analysis: "a", Trends: "t", Summary: "s", TopArticles: "x"}

	if err := renderer.Render(bundle, domain.Batch{}); err != nil {
		t.Fatalf("Render on empty batch should not fail: %v", err)
	}
}
