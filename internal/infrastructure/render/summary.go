package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gomarkdown/markdown"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/graph"
	"arxivdigest/internal/ports"
)

const (
	// WordCloudFileName is the word-cloud image artifact.
	WordCloudFileName = "summary_wordcloud.svg"
	// SummaryPageFileName is the rendered daily summary page.
	SummaryPageFileName = "daily_summary.html"
	// GraphFileName is the paper relationship graph in dot syntax.
	GraphFileName = "paper_graph.dot"
)

var summaryTemplate = template.Must(template.New("summary").Parse(`<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; padding: 20px; max-width: 800px; margin: 0 auto; }
        h1 { color: #333; }
        h2 { color: #666; }
        img { max-width: 100%; height: auto; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <h2>Word Cloud</h2>
    <img src="{{.WordCloudFile}}" alt="Summary Word Cloud">
    <h2>Top Articles</h2>
    {{.TopArticles}}
    <h2>Trends</h2>
    {{.Trends}}
</body>
</html>
`))

// VisualRenderer writes the visual artifacts of a run into the data
// directory: the word cloud, the relationship graph, and the daily
// summary page.
type VisualRenderer struct {
	dataDir string
	title   string
	logger  *slog.Logger
}

var _ ports.Renderer = (*VisualRenderer)(nil)

// NewVisualRenderer roots artifacts at dataDir.
func NewVisualRenderer(dataDir, title string, logger *slog.Logger) *VisualRenderer {
	if title == "" {
		title = "ArXiv AI/ML Daily Summary"
	}
	return &VisualRenderer{dataDir: dataDir, title: title, logger: logger}
}

// Render produces all three artifacts. Any write failure aborts the stage;
// nothing here panics on degenerate batches.
func (r *VisualRenderer) Render(bundle domain.ResultsBundle, batch domain.Batch) error {
	if err := os.MkdirAll(r.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	cloud := wordCloudSVG(bundle.Summary)
	if err := os.WriteFile(filepath.Join(r.dataDir, WordCloudFileName), []byte(cloud), 0o644); err != nil {
		return fmt.Errorf("write word cloud: %w", err)
	}

	relationships := graph.Build(batch.Papers)
	if err := os.WriteFile(filepath.Join(r.dataDir, GraphFileName), []byte(relationships.DOT()), 0o644); err != nil {
		return fmt.Errorf("write relationship graph: %w", err)
	}

	page, err := r.renderPage(bundle)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(r.dataDir, SummaryPageFileName), page, 0o644); err != nil {
		return fmt.Errorf("write summary page: %w", err)
	}

	if r.logger != nil {
		r.logger.Info("visual artifacts rendered",
			"dir", r.dataDir,
			"graph_nodes", len(relationships.Nodes),
			"graph_edges", len(relationships.Edges))
	}
	return nil
}

func (r *VisualRenderer) renderPage(bundle domain.ResultsBundle) ([]byte, error) {
	data := struct {
		Title         string
		WordCloudFile string
		TopArticles   template.HTML
		Trends        template.HTML
	}{
		Title:         r.title,
		WordCloudFile: WordCloudFileName,
		TopArticles:   renderMarkdown(bundle.TopArticles),
		Trends:        renderMarkdown(bundle.Trends),
	}

	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render summary page: %w", err)
	}
	return buf.Bytes(), nil
}

// renderMarkdown converts generator output (markdown by convention) into
// HTML for embedding.
func renderMarkdown(src string) template.HTML {
	return template.HTML(markdown.ToHTML([]byte(src), nil, nil))
}
