package models

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// SentimentLabels lists every label in reporting order.
var SentimentLabels = []SentimentLabel{SentimentPositive, SentimentNeutral, SentimentNegative}

func (l SentimentLabel) Valid() bool {
	switch l {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// LabelForScore buckets a polarity score. There is no dead zone: only an
// exact zero is neutral.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score > 0:
		return SentimentPositive
	case score < 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

type SentimentTally map[SentimentLabel]int

// NewSentimentTally returns an empty tally, or one with all three labels set
// to zero when includeZero is true.
func NewSentimentTally(includeZero bool) SentimentTally {
	tally := make(SentimentTally, len(SentimentLabels))
	if includeZero {
		for _, label := range SentimentLabels {
			tally[label] = 0
		}
	}
	return tally
}

func (t SentimentTally) Add(label SentimentLabel) {
	t[label]++
}

func (t SentimentTally) Total() int {
	total := 0
	for _, count := range t {
		total += count
	}
	return total
}

type AnalysisResult struct {
	TotalComments  int            `json:"total_comments"`
	SentimentTally SentimentTally `json:"sentiment_tally"`
	Summary        string         `json:"summary"`
}
