package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Mood is one value from the recognized mood vocabulary.
type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodSad        Mood = "sad"
	MoodAnxious    Mood = "anxious"
	MoodExcited    Mood = "excited"
	MoodTired      Mood = "tired"
	MoodEnergetic  Mood = "energetic"
	MoodCalm       Mood = "calm"
	MoodStressed   Mood = "stressed"
	MoodContent    Mood = "content"
	MoodFrustrated Mood = "frustrated"
)

// Band is the qualitative sentiment bucket derived from a polarity score.
type Band string

const (
	BandNegative Band = "negative"
	BandNeutral  Band = "neutral"
	BandPositive Band = "positive"
)

// Entry represents one immutable logged mood observation
type Entry struct {
	Timestamp      time.Time `json:"timestamp"`
	Mood           Mood      `json:"mood"`
	Activities     []string  `json:"activities"`
	Notes          string    `json:"notes"`
	SentimentScore float64   `json:"sentiment_score"`
}

// Day returns the calendar day the entry belongs to, truncated to midnight
// in the entry's own location.
func (e Entry) Day() time.Time {
	y, m, d := e.Timestamp.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.Timestamp.Location())
}

// HasActivity reports whether the entry's activity set contains name.
func (e Entry) HasActivity(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, a := range e.Activities {
		if a == name {
			return true
		}
	}
	return false
}

// Streak holds the consecutive-positive-day counters.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ValidationError signals input rejected at the boundary. It is the only
// error class that blocks an operation; nothing is stored when it fires.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Vocabulary is the closed set of moods the store accepts.
type Vocabulary struct {
	members map[Mood]struct{}
	ordered []Mood
}

// DefaultVocabulary returns the recognized mood set.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(
		MoodHappy, MoodSad, MoodAnxious, MoodExcited, MoodTired,
		MoodEnergetic, MoodCalm, MoodStressed, MoodContent, MoodFrustrated,
	)
}

// DefaultPositive returns the default positive-mood subset used for streaks.
func DefaultPositive() []Mood {
	return []Mood{MoodHappy, MoodExcited, MoodContent, MoodCalm, MoodEnergetic}
}

// NewVocabulary builds a vocabulary from the given moods, preserving order
// and collapsing duplicates.
func NewVocabulary(moods ...Mood) Vocabulary {
	v := Vocabulary{members: make(map[Mood]struct{}, len(moods))}
	for _, m := range moods {
		if _, ok := v.members[m]; ok {
			continue
		}
		v.members[m] = struct{}{}
		v.ordered = append(v.ordered, m)
	}
	return v
}

// Normalize lowercases and trims raw input and checks membership.
// Unrecognized values yield a *ValidationError.
func (v Vocabulary) Normalize(raw string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(raw)))
	if m == "" {
		return "", &ValidationError{Field: "mood", Value: raw, Reason: "must not be empty"}
	}
	if _, ok := v.members[m]; !ok {
		return "", &ValidationError{
			Field:  "mood",
			Value:  raw,
			Reason: fmt.Sprintf("not a recognized mood (use one of: %s)", joinMoods(v.ordered)),
		}
	}
	return m, nil
}

// Contains reports membership without normalization.
func (v Vocabulary) Contains(m Mood) bool {
	_, ok := v.members[m]
	return ok
}

// Moods returns the vocabulary in declaration order.
func (v Vocabulary) Moods() []Mood {
	out := make([]Mood, len(v.ordered))
	copy(out, v.ordered)
	return out
}

func joinMoods(moods []Mood) string {
	parts := make([]string, len(moods))
	for i, m := range moods {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}

// NormalizeActivities applies set semantics to raw activity input:
// trim, lowercase, drop empties, collapse duplicates, sort.
func NormalizeActivities(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, a := range raw {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
