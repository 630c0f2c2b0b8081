// Package summary builds extractive summaries of a comment corpus by scoring
// sentences on normalized word frequency.
package summary

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

const DefaultSentenceCount = 3

var ErrInvalidSentenceCount = errors.New("sentence count must be positive")

// Sentence is one segmented sentence and its frequency score.
type Sentence struct {
	Text  string
	Score float64
}

// Summarizer is safe for concurrent use; the tokenizer only reads its
// training data.
type Summarizer struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewSummarizer() (*Summarizer, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence tokenizer: %w", err)
	}
	return &Summarizer{tokenizer: tokenizer}, nil
}

// Summarize joins the comments into one corpus and returns up to n of its
// highest scoring sentences, joined by a single space in selection order.
func (s *Summarizer) Summarize(comments []string, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidSentenceCount, n)
	}

	corpus := strings.Join(comments, " ")
	scored := ScoreSentences(s.Segment(corpus), WordFrequencies(corpus))
	selected := SelectTop(scored, n)

	texts := make([]string, len(selected))
	for i, sentence := range selected {
		texts[i] = sentence.Text
	}
	return strings.Join(texts, " "), nil
}

// Segment splits text into sentences. Sentences without a single letter or
// digit are dropped.
func (s *Summarizer) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []string
	for _, sentence := range s.tokenizer.Tokenize(text) {
		trimmed := strings.TrimSpace(sentence.Text)
		if !hasWordChar(trimmed) {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// WordFrequencies counts case-folded whitespace-delimited words and divides
// each count by the largest one, so the most frequent word weighs 1.0.
func WordFrequencies(corpus string) map[string]float64 {
	counts := make(map[string]int)
	maxCount := 0
	for _, word := range words(corpus) {
		counts[word]++
		if counts[word] > maxCount {
			maxCount = counts[word]
		}
	}

	table := make(map[string]float64, len(counts))
	for word, count := range counts {
		table[word] = float64(count) / float64(maxCount)
	}
	return table
}

// ScoreSentences sums the table weight of every word in each sentence.
// Duplicate sentences are scored independently.
func ScoreSentences(texts []string, table map[string]float64) []Sentence {
	scored := make([]Sentence, len(texts))
	for i, text := range texts {
		var score float64
		for _, word := range words(text) {
			score += table[word]
		}
		scored[i] = Sentence{Text: text, Score: score}
	}
	return scored
}

// SelectTop returns the n highest scoring sentences by descending score.
// Equal scores keep their corpus order.
func SelectTop(scored []Sentence, n int) []Sentence {
	ranked := make([]Sentence, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func words(text string) []string {
	fields := strings.Fields(text)
	out := fields[:0]
	for _, field := range fields {
		if !hasWordChar(field) {
			continue
		}
		out = append(out, strings.ToLower(field))
	}
	return out
}

func hasWordChar(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}) >= 0
}
