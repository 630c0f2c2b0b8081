package pipeline

import (
	"fmt"
	"sync"

	"github.com/spacesedan/commentlens/internal/models"
	"github.com/spacesedan/commentlens/internal/sentiment"
	"github.com/spacesedan/commentlens/internal/summary"
)

// Classifier is the subset of sentiment.Classifier the analyzer needs.
type Classifier interface {
	Classify(comments []string) models.SentimentTally
}

// Summarizer is the subset of summary.Summarizer the analyzer needs.
type Summarizer interface {
	Summarize(comments []string, n int) (string, error)
}

type Options struct {
	SentenceCount     int
	IncludeZeroCounts bool
	// Markdown treats comments as markdown rather than plain text.
	Markdown bool
	// Parallel runs classification and summarization in separate goroutines.
	Parallel bool
}

func DefaultOptions() Options {
	return Options{SentenceCount: summary.DefaultSentenceCount}
}

type Analyzer struct {
	classifier Classifier
	summarizer Summarizer
	opts       Options
}

func NewAnalyzer(classifier Classifier, summarizer Summarizer, opts Options) *Analyzer {
	return &Analyzer{
		classifier: classifier,
		summarizer: summarizer,
		opts:       opts,
	}
}

// NewDefaultAnalyzer wires the VADER classifier and the frequency summarizer.
func NewDefaultAnalyzer(opts Options) (*Analyzer, error) {
	summarizer, err := summary.NewSummarizer()
	if err != nil {
		return nil, err
	}
	classifier := sentiment.NewClassifier(sentiment.Options{
		IncludeZeroCounts: opts.IncludeZeroCounts,
		Markdown:          opts.Markdown,
	})
	return NewAnalyzer(classifier, summarizer, opts), nil
}

// Analyze tallies sentiment and summarizes the comments. It performs no I/O.
func (a *Analyzer) Analyze(comments []string) (models.AnalysisResult, error) {
	if a.opts.SentenceCount <= 0 {
		return models.AnalysisResult{}, fmt.Errorf("%w: got %d", summary.ErrInvalidSentenceCount, a.opts.SentenceCount)
	}

	if len(comments) == 0 {
		return models.AnalysisResult{
			SentimentTally: models.NewSentimentTally(a.opts.IncludeZeroCounts),
		}, nil
	}

	var (
		tally      models.SentimentTally
		summaryTxt string
		err        error
	)
	if a.opts.Parallel {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			tally = a.classifier.Classify(comments)
		}()
		summaryTxt, err = a.summarizer.Summarize(comments, a.opts.SentenceCount)
		wg.Wait()
	} else {
		tally = a.classifier.Classify(comments)
		summaryTxt, err = a.summarizer.Summarize(comments, a.opts.SentenceCount)
	}
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to summarize comments: %w", err)
	}

	return models.AnalysisResult{
		TotalComments:  len(comments),
		SentimentTally: tally,
		Summary:        summaryTxt,
	}, nil
}
