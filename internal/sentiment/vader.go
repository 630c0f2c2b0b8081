package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/commentlens/internal/models"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)

	// <hate>, <love this video>; "<3" has no closing bracket and is left alone.
	bracketPattern = regexp.MustCompile(`<([\pL\pN][^<>]*)>`)
)

type Options struct {
	// IncludeZeroCounts reports all three labels, with zero for the ones that
	// never occurred.
	IncludeZeroCounts bool
	// Markdown renders comments as markdown before scoring. Plain-text
	// comments (the default) only lose their links.
	Markdown bool
}

// Classifier scores comments with VADER and buckets them into labels.
type Classifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
	opts     Options
}

func NewClassifier(opts Options) *Classifier {
	return &Classifier{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		opts:     opts,
	}
}

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// CleanText removes links from plain text and unwraps angle-bracketed words,
// flattening the result to a single line.
func CleanText(input string) string {
	unwrapped := bracketPattern.ReplaceAllString(RemoveLinks(input), " $1 ")
	return strings.Join(strings.Fields(unwrapped), " ")
}

// ConvertMarkdownToText renders markdown and flattens the result back to a
// single line of plain text without links. Angle brackets in the input are
// text, never HTML: only tags produced by the renderer are stripped.
func ConvertMarkdownToText(input string) string {
	escaped := strings.ReplaceAll(input, "<", "&lt;")
	output := blackfriday.Run([]byte(escaped), blackfriday.WithNoExtensions())
	stripped := html.UnescapeString(tagPattern.ReplaceAllString(string(output), " "))

	return CleanText(stripped)
}

func (c *Classifier) clean(text string) string {
	if c.opts.Markdown {
		return ConvertMarkdownToText(text)
	}
	return CleanText(text)
}

// Score returns the compound polarity of text in [-1, 1]. Text with nothing
// to score is 0.
func (c *Classifier) Score(text string) float64 {
	plainText := c.clean(text)
	if plainText == "" {
		return 0
	}

	return c.analyzer.PolarityScores(plainText).Compound
}

func (c *Classifier) Label(text string) models.SentimentLabel {
	return models.LabelForScore(c.Score(text))
}

// Classify labels every comment and returns the tally. The tally always sums
// to len(comments).
func (c *Classifier) Classify(comments []string) models.SentimentTally {
	tally := models.NewSentimentTally(c.opts.IncludeZeroCounts)
	for _, comment := range comments {
		tally.Add(c.Label(comment))
	}
	return tally
}
