package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
	"github.com/pbaille/moodlog/internal/domain"
)

// DefaultBandThreshold is the polarity magnitude separating the neutral band
// from positive and negative.
const DefaultBandThreshold = 0.1

// Scorer maps free text to a polarity score using a lexicon model.
// Scores are deterministic for a fixed lexicon version.
type Scorer struct {
	analyzer  *govader.SentimentIntensityAnalyzer
	threshold float64
}

// NewScorer creates a Scorer with the given band threshold.
// A threshold of 0 falls back to DefaultBandThreshold.
func NewScorer(threshold float64) *Scorer {
	if threshold <= 0 {
		threshold = DefaultBandThreshold
	}
	return &Scorer{
		analyzer:  govader.NewSentimentIntensityAnalyzer(),
		threshold: threshold,
	}
}

// Score returns the polarity of notes in [-1, 1]. Empty or whitespace-only
// text scores 0. Sentiment is advisory, so a nil or uninitialized Scorer
// degrades to neutral instead of erroring.
func (s *Scorer) Score(notes string) float64 {
	if s == nil || s.analyzer == nil {
		return 0
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return 0
	}
	compound := s.analyzer.PolarityScores(notes).Compound
	if compound > 1 {
		return 1
	}
	if compound < -1 {
		return -1
	}
	return compound
}

// Band classifies a score against the scorer's threshold.
func (s *Scorer) Band(score float64) domain.Band {
	threshold := DefaultBandThreshold
	if s != nil && s.threshold > 0 {
		threshold = s.threshold
	}
	switch {
	case score > threshold:
		return domain.BandPositive
	case score < -threshold:
		return domain.BandNegative
	default:
		return domain.BandNeutral
	}
}

var tips = map[domain.Band]string{
	domain.BandPositive: "Keep up the great work! Consider maintaining your routine to sustain your positive mood.",
	domain.BandNeutral:  "It's a balanced day. To enhance your mood, try engaging in activities you enjoy.",
	domain.BandNegative: "I'm sorry you're feeling this way. Consider reaching out to a friend or trying a relaxation technique.",
}

// Tip returns the contextual suggestion for a band. Pure lookup, no
// external calls.
func Tip(b domain.Band) string {
	if tip, ok := tips[b]; ok {
		return tip
	}
	return tips[domain.BandNeutral]
}
