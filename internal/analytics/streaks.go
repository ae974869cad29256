// Package analytics derives statistics from an entry history snapshot.
// Every function here is pure: entries are read, never mutated.
package analytics

import (
	"sort"
	"time"

	"github.com/pbaille/moodlog/internal/domain"
)

const dayFormat = "2006-01-02"

// StreakOptions controls how calendar days with no entries are treated.
type StreakOptions struct {
	// BridgeGaps keeps a run alive across days that have no entries.
	// Default false: a zero-entry day breaks the streak.
	BridgeGaps bool
}

// Streaks computes the current and longest runs of consecutive positive
// days with the default gap policy. A positive day is a calendar day with
// at least one entry whose mood is in the positive set.
func Streaks(entries []domain.Entry, positive map[domain.Mood]bool) domain.Streak {
	return StreaksWith(entries, positive, StreakOptions{})
}

// StreaksWith is Streaks with an explicit gap policy. Entry order does not
// matter; days are sorted internally. Current is the trailing run ending
// at the most recent day with data, zero if that day is not positive.
// The longest counter keeps the earliest maximum.
func StreaksWith(entries []domain.Entry, positive map[domain.Mood]bool, opts StreakOptions) domain.Streak {
	dayPositive := make(map[string]bool)
	for _, e := range entries {
		day := e.Day().Format(dayFormat)
		if positive[e.Mood] {
			dayPositive[day] = true
		} else if _, seen := dayPositive[day]; !seen {
			dayPositive[day] = false
		}
	}

	days := make([]string, 0, len(dayPositive))
	for day := range dayPositive {
		days = append(days, day)
	}
	sort.Strings(days)

	var run, longest int
	var prev time.Time
	for _, day := range days {
		d, err := time.Parse(dayFormat, day)
		if err != nil {
			continue
		}
		if !dayPositive[day] {
			run = 0
		} else if run > 0 && (opts.BridgeGaps || prev.AddDate(0, 0, 1).Equal(d)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = d
	}

	return domain.Streak{Current: run, Longest: longest}
}
