package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gomarkdown/markdown"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/infrastructure/render"
	"arxivdigest/internal/ports"
)

// IndexFileName is the published page inside the output directory.
const IndexFileName = "index.html"

var indexTemplate = template.Must(template.New("index").Parse(`<html>
<head>
    <title>{{.Title}} - {{.Date}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; padding: 20px; max-width: 800px; margin: 0 auto; }
        h1 { color: #333; }
        h2 { color: #666; }
        img { max-width: 100%; height: auto; }
        footer { color: #999; font-size: 0.8em; margin-top: 40px; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p>{{.Date}}</p>
    <h2>Summary</h2>
    {{.Summary}}
    <h2>Word Cloud</h2>
    <img src="{{.WordCloudFile}}" alt="Summary Word Cloud">
    <h2>Top Articles</h2>
    {{.TopArticles}}
    <h2>Trends</h2>
    {{.Trends}}
    <footer>Generated {{.Date}}</footer>
</body>
</html>
`))

// Generator publishes the daily page: it verifies the rendered artifacts
// exist, templates index.html into the output directory, and copies the
// companion image alongside. Missing prerequisites come back as errors
// for the caller to report; nothing here aborts the process.
type Generator struct {
	dataDir   string
	outputDir string
	title     string
	logger    *slog.Logger
}

var _ ports.Publisher = (*Generator)(nil)

// NewGenerator wires the artifact and output locations.
func NewGenerator(dataDir, outputDir, title string, logger *slog.Logger) *Generator {
	if title == "" {
		title = "ArXiv AI/ML Daily Summary"
	}
	return &Generator{dataDir: dataDir, outputDir: outputDir, title: title, logger: logger}
}

// Publish templates the final page for the given run date.
func (g *Generator) Publish(bundle domain.ResultsBundle, date time.Time) error {
	cloudPath := filepath.Join(g.dataDir, render.WordCloudFileName)
	summaryPath := filepath.Join(g.dataDir, render.SummaryPageFileName)

	for _, prerequisite := range []string{cloudPath, summaryPath} {
		if _, err := os.Stat(prerequisite); err != nil {
			return fmt.Errorf("missing prerequisite artifact %s: %w", prerequisite, err)
		}
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	page, err := g.renderIndex(bundle, date)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(g.outputDir, IndexFileName), page, 0o644); err != nil {
		return fmt.Errorf("write index page: %w", err)
	}

	if err := copyFile(cloudPath, filepath.Join(g.outputDir, render.WordCloudFileName)); err != nil {
		return fmt.Errorf("copy word cloud: %w", err)
	}

	if g.logger != nil {
		g.logger.Info("site published", "output", filepath.Join(g.outputDir, IndexFileName))
	}
	return nil
}

func (g *Generator) renderIndex(bundle domain.ResultsBundle, date time.Time) ([]byte, error) {
	data := struct {
		Title         string
		Date          string
		WordCloudFile string
		Summary       template.HTML
		TopArticles   template.HTML
		Trends        template.HTML
	}{
		Title:         g.title,
		Date:          date.Format("2006-01-02"),
		WordCloudFile: render.WordCloudFileName,
		Summary:       toHTML(bundle.Summary),
		TopArticles:   toHTML(bundle.TopArticles),
		Trends:        toHTML(bundle.Trends),
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render index page: %w", err)
	}
	return buf.Bytes(), nil
}

func toHTML(src string) template.HTML {
	return template.HTML(markdown.ToHTML([]byte(src), nil, nil))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
