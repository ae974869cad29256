package analytics

import (
	"time"

	"github.com/pbaille/moodlog/internal/domain"
)

// Bander classifies a stored sentiment score into a band.
type Bander interface {
	Band(score float64) domain.Band
}

// MoodFrequency counts entries per mood over the full history.
func MoodFrequency(entries []domain.Entry) map[domain.Mood]int {
	counts := make(map[domain.Mood]int)
	for _, e := range entries {
		counts[e.Mood]++
	}
	return counts
}

// MostFrequentMood returns the mood with the highest entry count, ties
// broken by earliest first occurrence in history order. ok is false when
// the history is empty.
func MostFrequentMood(entries []domain.Entry) (domain.Mood, bool) {
	return topMood(entries, func(domain.Entry) bool { return true })
}

// MoodByWeekday buckets entries by the day-of-week of their timestamp,
// then by mood.
func MoodByWeekday(entries []domain.Entry) map[time.Weekday]map[domain.Mood]int {
	buckets := make(map[time.Weekday]map[domain.Mood]int)
	for _, e := range entries {
		wd := e.Timestamp.Weekday()
		if buckets[wd] == nil {
			buckets[wd] = make(map[domain.Mood]int)
		}
		buckets[wd][e.Mood]++
	}
	return buckets
}

// MostProductiveMood returns the most common mood among entries whose
// activity set contains the productivity tag, ties broken by earliest
// first occurrence in history order. ok is false when no entry carries
// the tag ("no data", not an error).
func MostProductiveMood(entries []domain.Entry, productivityTag string) (domain.Mood, bool) {
	return topMood(entries, func(e domain.Entry) bool { return e.HasActivity(productivityTag) })
}

func topMood(entries []domain.Entry, include func(domain.Entry) bool) (domain.Mood, bool) {
	counts := make(map[domain.Mood]int)
	firstSeen := make(map[domain.Mood]int)
	for i, e := range entries {
		if !include(e) {
			continue
		}
		if _, ok := firstSeen[e.Mood]; !ok {
			firstSeen[e.Mood] = i
		}
		counts[e.Mood]++
	}
	if len(counts) == 0 {
		return "", false
	}

	var best domain.Mood
	found := false
	for mood, n := range counts {
		if !found || n > counts[best] || (n == counts[best] && firstSeen[mood] < firstSeen[best]) {
			best = mood
			found = true
		}
	}
	return best, true
}

// BestWeekday returns the day-of-week with the highest proportion of
// positive-banded entries, classifying stored scores with bander. Ties go
// to the earliest weekday index (Monday < ... < Sunday). ok is false when
// the history is empty.
func BestWeekday(entries []domain.Entry, bander Bander) (time.Weekday, bool) {
	var positive, total [7]int
	for _, e := range entries {
		i := isoWeekdayIndex(e.Timestamp.Weekday())
		total[i]++
		if bander.Band(e.SentimentScore) == domain.BandPositive {
			positive[i]++
		}
	}

	best := -1
	var bestShare float64
	for i := 0; i < 7; i++ {
		if total[i] == 0 {
			continue
		}
		share := float64(positive[i]) / float64(total[i])
		if best == -1 || share > bestShare {
			best = i
			bestShare = share
		}
	}
	if best == -1 {
		return 0, false
	}
	return fromISOWeekdayIndex(best), true
}

// SentimentDistribution counts entries per band, classifying stored
// scores with bander.
func SentimentDistribution(entries []domain.Entry, bander Bander) map[domain.Band]int {
	counts := make(map[domain.Band]int)
	for _, e := range entries {
		counts[bander.Band(e.SentimentScore)]++
	}
	return counts
}

// isoWeekdayIndex maps time.Weekday (Sunday = 0) to Monday-first indexing.
func isoWeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func fromISOWeekdayIndex(i int) time.Weekday {
	return time.Weekday((i + 1) % 7)
}
