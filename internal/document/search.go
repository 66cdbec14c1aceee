package document

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// contextRadius is the number of bytes of surrounding text kept on
// each side of a match, clamped to the page and snapped inward to
// rune boundaries.
const contextRadius = 100

// Searcher finds literal, case-insensitive occurrences of a query
// within extracted pages.
type Searcher struct {
	radius int
}

// NewSearcher creates a search engine with the default context window.
func NewSearcher() *Searcher {
	return &Searcher{
		radius: contextRadius,
	}
}

// Search returns every non-overlapping occurrence of query across the
// pages, in page order and then match-position order. The query is
// matched as a literal substring; regex metacharacters have no special
// meaning. An empty query yields zero hits rather than matching
// everywhere.
func (s *Searcher) Search(pages []Page, query string) []SearchHit {
	if query == "" {
		return nil
	}

	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))

	var hits []SearchHit
	for _, page := range pages {
		for _, loc := range pattern.FindAllStringIndex(page.Text, -1) {
			hits = append(hits, SearchHit{
				Page:        page.Number,
				MatchedText: page.Text[loc[0]:loc[1]],
				Context:     s.contextWindow(page.Text, loc[0], loc[1]),
			})
		}
	}

	return hits
}

// contextWindow slices up to radius bytes either side of [start, end),
// clamped to the text bounds and snapped inward to rune boundaries so
// that multi-byte characters are never split. Newlines are replaced
// with single spaces.
func (s *Searcher) contextWindow(text string, start, end int) string {
	lo := start - s.radius
	if lo < 0 {
		lo = 0
	}
	for lo < start && !utf8.RuneStart(text[lo]) {
		lo++
	}

	hi := end + s.radius
	if hi > len(text) {
		hi = len(text)
	}
	for hi > end && hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi--
	}

	return strings.ReplaceAll(text[lo:hi], "\n", " ")
}
