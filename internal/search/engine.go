package search

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/pders01/journal/internal/storage"
)

// Engine scores the cached snapshot directly, without an index. It is the
// fallback when the bleve index cannot be opened.
type Engine struct {
	source ArticleSource
	now    func() time.Time
}

func NewEngine(source ArticleSource) *Engine {
	return &Engine{source: source, now: time.Now}
}

// Search scores every cached article against the query.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	articles, err := e.source.GetArticles(0)
	if err != nil {
		return nil, err
	}

	results := []*Result{}
	for _, article := range articles {
		if result := e.searchArticle(article, terms); result != nil {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (e *Engine) searchArticle(article *storage.Article, terms []string) *Result {
	var matches []Match
	var totalScore float64

	if s := scoreField(article.Title, terms, 4.0); s > 0 {
		matches = append(matches, Match{Field: "title", Text: article.Title, Weight: s})
		totalScore += s
	}

	if s := scoreField(article.Category.Name, terms, 2.0); s > 0 {
		matches = append(matches, Match{Field: "category", Text: article.Category.Name, Weight: s})
		totalScore += s
	}

	body := plainText(article.Content)
	if s := scoreField(body, terms, 1.0); s > 0 {
		matches = append(matches, Match{Field: "content", Text: bestSnippet(body, terms, 200), Weight: s})
		totalScore += s
	}

	if totalScore == 0 {
		return nil
	}
	totalScore *= 1.0 + e.recencyBoost(article.CreatedAt)

	return &Result{Article: article, Score: totalScore, Matches: matches}
}

// recencyBoost gives up to 10% to articles from the last week.
func (e *Engine) recencyBoost(created time.Time) float64 {
	if created.IsZero() {
		return 0
	}
	age := e.now().Sub(created)
	week := 7 * 24 * time.Hour
	if age < 0 || age >= week {
		return 0
	}
	return 0.1 * (1 - float64(age)/float64(week))
}

func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matched++
		}
		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matched++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matched++
			case strings.Contains(word, term):
				score += 0.5
				matched++
			}
		}
	}

	if len(terms) > 1 && matched > 1 {
		score *= 1.0 + float64(matched)/float64(len(terms))
	}

	tf := float64(matched) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// bestSnippet picks the window of words that mentions the most terms.
func bestSnippet(text string, terms []string, maxLength int) string {
	words := strings.Fields(text)
	window := maxLength / 8
	if window >= len(words) {
		return truncate(text, maxLength)
	}

	best, bestStart := 0, 0
	for i := 0; i <= len(words)-window; i++ {
		chunk := strings.ToLower(strings.Join(words[i:i+window], " "))
		score := 0
		for _, term := range terms {
			if strings.Contains(chunk, term) {
				score++
			}
		}
		if score > best {
			best, bestStart = score, i
		}
	}

	return truncate(strings.Join(words[bestStart:bestStart+window], " "), maxLength)
}

// tokenize lowercases text and splits it into terms of two or more runes.
func tokenize(text string) []string {
	var terms []string
	var current strings.Builder

	flush := func() {
		if term := current.String(); len([]rune(term)) > 1 {
			terms = append(terms, term)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			flush()
		}
	}
	flush()

	return terms
}

func truncate(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	return string(r[:maxLen-1]) + "…"
}
