package analysis

import (
	"fmt"
	"strings"

	"arxivdigest/internal/domain"
)

// formatPapers renders the batch into the plain-text block shared by the
// prompts. Order follows the batch; duplicate entries are kept as-is.
func formatPapers(papers []domain.Paper) string {
	if len(papers) == 0 {
		return "(no papers in this window)"
	}

	var b strings.Builder
	for i, paper := range papers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, paper.Title)
		if len(paper.Authors) > 0 {
			fmt.Fprintf(&b, "Authors: %s\n", strings.Join(paper.Authors, ", "))
		}
		if len(paper.Categories) > 0 {
			fmt.Fprintf(&b, "Categories: %s\n", strings.Join(paper.Categories, ", "))
		}
		fmt.Fprintf(&b, "Abstract: %s\n\n", paper.Summary)
	}
	return strings.TrimSpace(b.String())
}

func analyzePrompt(papers string) string {
	return fmt.Sprintf(`Analyze the following AI/ML research papers:

%s

Provide a concise summary for each paper, focusing on:
1. The main contribution
2. Key findings or results
3. Potential impact or applications

Limit each summary to 2-3 sentences.`, papers)
}

func trendsPrompt(papers string) string {
	return fmt.Sprintf(`Identify the top 3-5 trends in the following AI/ML research papers:

%s

For each trend:
1. Provide a short name (1-3 words)
2. Give a brief explanation (1 sentence)

Format the output as a numbered list.`, papers)
}

func summaryPrompt(analysis, trends string) string {
	return fmt.Sprintf(`Based on the following information about recent AI/ML research papers:

Analysis: %s
Trends: %s

Provide a concise overall summary that:
1. Highlights the most significant developments
2. Identifies common themes or patterns
3. Suggests potential future directions

Limit the summary to 2-3 sentences.`, analysis, trends)
}

func topArticlesPrompt(papers, analysis string) string {
	return fmt.Sprintf(`Based on the following analysis of AI/ML research papers:

%s

And considering these papers:

%s

Select the top 3-5 most interesting or useful articles. For each selected article:
1. Provide the title
2. Give a brief explanation of why it's important or interesting (1-2 sentences)

Format the output as a numbered list.`, analysis, papers)
}
