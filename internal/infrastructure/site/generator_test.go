package site

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/infrastructure/render"
)

func fullBundle() domain.ResultsBundle {
	return domain.ResultsBundle{
		Analysis:    "per-paper analysis",
		Trends:      "1. Sparse models",
		Summary:     "A strong week for efficiency research.",
		TopArticles: "1. Sparse Attention at Scale",
	}
}

func writeArtifacts(t *testing.T, dataDir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dataDir, render.WordCloudFileName), []byte("<svg/>"), 0o644); err != nil {
		t.Fatalf("write cloud fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, render.SummaryPageFileName), []byte("<html/>"), 0o644); err != nil {
		t.Fatalf("write summary fixture: %v", err)
	}
}

func TestPublishRendersIndexAndCopiesImage(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	outputDir := t.TempDir()
	writeArtifacts(t, dataDir)

	generator := NewGenerator(dataDir, outputDir, "Digest", nil)
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	if err := generator.Publish(fullBundle(), date); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outputDir, render.WordCloudFileName)); err != nil {
		t.Fatalf("word cloud not copied: %v", err)
	}

	page, err := os.Open(filepath.Join(outputDir, IndexFileName))
	if err != nil {
		t.Fatalf("open index page: %v", err)
	}
	defer page.Close()

	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		t.Fatalf("parse index page: %v", err)
	}

	if title := doc.Find("h1").First().Text(); title != "Digest" {
		t.Fatalf("unexpected title: %s", title)
	}
	if date := doc.Find("p").First().Text(); date != "2024-06-10" {
		t.Fatalf("unexpected date: %s", date)
	}
}

func TestPublishMissingPrerequisite(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	generator := NewGenerator(dataDir, t.TempDir(), "", nil)

	err := generator.Publish(fullBundle(), time.Now())
	if err == nil {
		t.Fatalf("expected missing-artifact error")
	}
}
