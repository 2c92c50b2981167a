package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"arxivdigest/internal/config"
	"arxivdigest/internal/domain"
	"arxivdigest/internal/ports"
)

const (
	maxAttempts   = 3
	retryBackoff  = 5 * time.Second
	submittedDate = "submittedDate"
)

// ArxivSource queries the arXiv search API for papers submitted inside a
// calendar-day window and parses the Atom response into domain records.
type ArxivSource struct {
	client     *http.Client
	parser     *gofeed.Parser
	baseURL    string
	categories []string
	maxResults int
	sortOrder  string
	backoff    time.Duration
	logger     *slog.Logger
}

var _ ports.PaperSource = (*ArxivSource)(nil)

// NewArxivSource wires an HTTP client against the configured feed endpoint.
func NewArxivSource(client *http.Client, cfg config.FeedConfig, logger *slog.Logger) *ArxivSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	sortOrder := cfg.SortOrder
	if sortOrder != "ascending" && sortOrder != "descending" {
		sortOrder = "descending"
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 1000
	}

	return &ArxivSource{
		client:     client,
		parser:     gofeed.NewParser(),
		baseURL:    cfg.BaseURL,
		categories: cfg.Categories,
		maxResults: maxResults,
		sortOrder:  sortOrder,
		backoff:    retryBackoff,
		logger:     logger,
	}
}

// Fetch retrieves all papers submitted in [start, end], retrying transport
// and parse failures with a fixed backoff. After the attempts are
// exhausted the last error is returned alongside an empty result so the
// caller can degrade to an empty batch.
func (s *ArxivSource) Fetch(ctx context.Context, start, end time.Time) ([]domain.Paper, error) {
	requestURL := s.buildRequestURL(start, end)

	s.debug("fetch window", "start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		papers, err := s.fetchOnce(ctx, requestURL)
		if err == nil {
			s.debug("fetch succeeded", "attempt", attempt, "papers", len(papers))
			return papers, nil
		}

		lastErr = err
		s.warn("fetch attempt failed", "attempt", attempt, "error", err)

		if attempt == maxAttempts {
			break
		}

		select {
		case <-time.After(s.backoff):
		case <-ctx.Done():
			return []domain.Paper{}, ctx.Err()
		}
	}

	return []domain.Paper{}, fmt.Errorf("fetch window after %d attempts: %w", maxAttempts, lastErr)
}

func (s *ArxivSource) fetchOnce(ctx context.Context, requestURL string) ([]domain.Paper, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "arxivdigest/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	// A 2xx response with an unparsable body retries like a transport error.
	parsed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return s.papersFromFeed(parsed), nil
}

// papersFromFeed maps Atom entries to Paper records in source order.
// Entries missing an identifier or title are dropped with a warning.
func (s *ArxivSource) papersFromFeed(parsed *gofeed.Feed) []domain.Paper {
	papers := make([]domain.Paper, 0, len(parsed.Items))

	for _, item := range parsed.Items {
		id := strings.TrimSpace(item.GUID)
		if id == "" {
			id = strings.TrimSpace(item.Link)
		}
		title := strings.TrimSpace(item.Title)

		if id == "" || title == "" {
			s.warn("dropping malformed feed entry", "id", id, "title", title)
			continue
		}

		paper := domain.Paper{
			ID:         id,
			Title:      title,
			Summary:    strings.TrimSpace(item.Description),
			Link:       item.Link,
			Categories: item.Categories,
		}

		for _, author := range item.Authors {
			if author != nil && author.Name != "" {
				paper.Authors = append(paper.Authors, author.Name)
			}
		}

		if item.PublishedParsed != nil {
			paper.Published = *item.PublishedParsed
		}
		if item.UpdatedParsed != nil {
			paper.Updated = *item.UpdatedParsed
		}

		papers = append(papers, paper)
	}

	return papers
}

// buildRequestURL assembles the search query: an OR-joined category
// allowlist restricted to the submitted-date range, inclusive at
// calendar-day granularity.
func (s *ArxivSource) buildRequestURL(start, end time.Time) string {
	cats := make([]string, 0, len(s.categories))
	for _, cat := range s.categories {
		cats = append(cats, "cat:"+cat)
	}

	query := fmt.Sprintf("(%s) AND %s:[%s000000 TO %s235959]",
		strings.Join(cats, " OR "),
		submittedDate,
		start.Format("20060102"),
		end.Format("20060102"))

	params := url.Values{}
	params.Set("search_query", query)
	params.Set("max_results", strconv.Itoa(s.maxResults))
	params.Set("sortBy", submittedDate)
	params.Set("sortOrder", s.sortOrder)

	return s.baseURL + "?" + params.Encode()
}

func (s *ArxivSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *ArxivSource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
