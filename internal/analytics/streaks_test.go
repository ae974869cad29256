package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pbaille/moodlog/internal/domain"
)

var positiveSet = map[domain.Mood]bool{
	domain.MoodHappy:     true,
	domain.MoodCalm:      true,
	domain.MoodEnergetic: true,
}

func entryOn(day string, mood domain.Mood, activities ...string) domain.Entry {
	ts, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return domain.Entry{Timestamp: ts, Mood: mood, Activities: activities}
}

func TestStreaks_Empty(t *testing.T) {
	assert.Equal(t, domain.Streak{}, Streaks(nil, positiveSet))
}

func TestStreaks_GapBreaksRun(t *testing.T) {
	// Positive on days 1-3, nothing on day 4, positive on day 5.
	entries := []domain.Entry{
		entryOn("2024-03-01", domain.MoodHappy),
		entryOn("2024-03-02", domain.MoodCalm),
		entryOn("2024-03-03", domain.MoodHappy),
		entryOn("2024-03-05", domain.MoodEnergetic),
	}
	streak := Streaks(entries, positiveSet)
	assert.Equal(t, 1, streak.Current)
	assert.Equal(t, 3, streak.Longest)
}

func TestStreaks_BridgeGapsJoinsRuns(t *testing.T) {
	entries := []domain.Entry{
		entryOn("2024-03-01", domain.MoodHappy),
		entryOn("2024-03-02", domain.MoodCalm),
		entryOn("2024-03-03", domain.MoodHappy),
		entryOn("2024-03-05", domain.MoodEnergetic),
	}
	streak := StreaksWith(entries, positiveSet, StreakOptions{BridgeGaps: true})
	assert.Equal(t, 4, streak.Current)
	assert.Equal(t, 4, streak.Longest)
}

func TestStreaks_NonPositiveDayResets(t *testing.T) {
	entries := []domain.Entry{
		entryOn("2024-03-01", domain.MoodHappy),
		entryOn("2024-03-02", domain.MoodSad),
		entryOn("2024-03-03", domain.MoodHappy),
		entryOn("2024-03-04", domain.MoodHappy),
	}
	streak := Streaks(entries, positiveSet)
	assert.Equal(t, 2, streak.Current)
	assert.Equal(t, 2, streak.Longest)
}

func TestStreaks_CurrentZeroWhenLatestDayNotPositive(t *testing.T) {
	entries := []domain.Entry{
		entryOn("2024-03-01", domain.MoodHappy),
		entryOn("2024-03-02", domain.MoodHappy),
		entryOn("2024-03-03", domain.MoodSad),
	}
	streak := Streaks(entries, positiveSet)
	assert.Equal(t, 0, streak.Current)
	assert.Equal(t, 2, streak.Longest)
}

func TestStreaks_InputOrderIrrelevant(t *testing.T) {
	entries := []domain.Entry{
		entryOn("2024-03-03", domain.MoodHappy),
		entryOn("2024-03-01", domain.MoodHappy),
		entryOn("2024-03-02", domain.MoodHappy),
	}
	streak := Streaks(entries, positiveSet)
	assert.Equal(t, 3, streak.Current)
	assert.Equal(t, 3, streak.Longest)
}

func TestStreaks_EntriesAtDifferentTimesGroupByCalendarDay(t *testing.T) {
	morning := domain.Entry{
		Timestamp: time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC),
		Mood:      domain.MoodHappy,
	}
	evening := domain.Entry{
		Timestamp: time.Date(2024, 3, 1, 21, 40, 0, 0, time.UTC),
		Mood:      domain.MoodCalm,
	}
	streak := Streaks([]domain.Entry{morning, evening}, positiveSet)
	assert.Equal(t, 1, streak.Current)
	assert.Equal(t, 1, streak.Longest)
}

func TestStreaks_OnePositiveEntryMakesDayPositive(t *testing.T) {
	// Same day logs a sad morning and a happy evening: the day counts.
	entries := []domain.Entry{
		entryOn("2024-03-01", domain.MoodSad),
		entryOn("2024-03-01", domain.MoodHappy),
	}
	streak := Streaks(entries, positiveSet)
	assert.Equal(t, 1, streak.Current)
	assert.Equal(t, 1, streak.Longest)
}

func TestStreaks_LongestKeepsEarlierMaximumOnTie(t *testing.T) {
	// Two separate three-day runs; longest stays 3 either way.
	entries := []domain.Entry{
		entryOn("2024-03-01", domain.MoodHappy),
		entryOn("2024-03-02", domain.MoodHappy),
		entryOn("2024-03-03", domain.MoodHappy),
		entryOn("2024-03-04", domain.MoodSad),
		entryOn("2024-03-05", domain.MoodHappy),
		entryOn("2024-03-06", domain.MoodHappy),
		entryOn("2024-03-07", domain.MoodHappy),
	}
	streak := Streaks(entries, positiveSet)
	assert.Equal(t, 3, streak.Current)
	assert.Equal(t, 3, streak.Longest)
}
