package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	cloudWidth    = 800
	cloudHeight   = 400
	maxCloudWords = 40
	minFontSize   = 12
	maxFontSize   = 46
)

var nonLetter = regexp.MustCompile(`[^a-zA-Z\s]`)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"are": {}, "from": {}, "our": {}, "can": {}, "has": {}, "have": {},
	"such": {}, "these": {}, "their": {}, "which": {}, "into": {},
	"but": {}, "not": {}, "its": {}, "also": {}, "more": {}, "new": {},
}

type wordCount struct {
	word  string
	count int
}

// wordFrequencies tokenizes the text, drops stopwords and short tokens,
// and returns the most frequent words in descending order.
func wordFrequencies(text string) []wordCount {
	cleaned := nonLetter.ReplaceAllString(text, "")
	counts := make(map[string]int)

	for _, token := range strings.Fields(strings.ToLower(cleaned)) {
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		counts[token]++
	}

	words := make([]wordCount, 0, len(counts))
	for word, count := range counts {
		words = append(words, wordCount{word: word, count: count})
	}

	sort.Slice(words, func(i, j int) bool {
		if words[i].count != words[j].count {
			return words[i].count > words[j].count
		}
		return words[i].word < words[j].word
	})

	if len(words) > maxCloudWords {
		words = words[:maxCloudWords]
	}
	return words
}

// wordCloudSVG lays the most frequent words out in rows, sized by
// frequency. The layout is deterministic so repeated runs over the same
// summary produce identical artifacts.
func wordCloudSVG(text string) string {
	words := wordFrequencies(text)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", cloudWidth, cloudHeight)
	fmt.Fprintf(&sb, `  <rect width="%d" height="%d" fill="white"/>`+"\n", cloudWidth, cloudHeight)

	if len(words) == 0 {
		sb.WriteString("</svg>\n")
		return sb.String()
	}

	maxCount := words[0].count
	minCount := words[len(words)-1].count

	x, y := 10, 50
	rowHeight := 0
	for _, wc := range words {
		size := minFontSize
		if maxCount > minCount {
			size += (maxFontSize - minFontSize) * (wc.count - minCount) / (maxCount - minCount)
		} else {
			size = (minFontSize + maxFontSize) / 2
		}

		// Rough glyph-width estimate keeps rows inside the canvas.
		width := int(float64(size) * 0.6 * float64(len(wc.word)))
		if x+width > cloudWidth-10 {
			x = 10
			y += rowHeight + 10
			rowHeight = 0
		}
		if y > cloudHeight-10 {
			break
		}

		fmt.Fprintf(&sb, `  <text x="%d" y="%d" font-size="%d" font-family="sans-serif" fill="#33667f">%s</text>`+"\n",
			x, y, size, wc.word)

		x += width + 12
		if size > rowHeight {
			rowHeight = size
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
