package analytics

import (
	"sort"

	"github.com/pbaille/moodlog/internal/domain"
)

// ActivityMoodMatrix builds the activity × mood co-occurrence table: for
// every entry, each activity in its set increments the cell for that
// activity and the entry's mood. An entry with k activities contributes
// to k cells. Consumers render this as a heatmap; this function only
// produces the numbers.
func ActivityMoodMatrix(entries []domain.Entry) map[string]map[domain.Mood]int {
	matrix := make(map[string]map[domain.Mood]int)
	for _, e := range entries {
		for _, a := range e.Activities {
			if matrix[a] == nil {
				matrix[a] = make(map[domain.Mood]int)
			}
			matrix[a][e.Mood]++
		}
	}
	return matrix
}

// MatrixAxes returns the sorted activity and mood axes of a matrix, for
// stable table rendering.
func MatrixAxes(matrix map[string]map[domain.Mood]int) ([]string, []domain.Mood) {
	var activities []string
	moodSet := make(map[domain.Mood]struct{})
	for a, row := range matrix {
		activities = append(activities, a)
		for m := range row {
			moodSet[m] = struct{}{}
		}
	}
	sort.Strings(activities)

	moods := make([]domain.Mood, 0, len(moodSet))
	for m := range moodSet {
		moods = append(moods, m)
	}
	sort.Slice(moods, func(i, j int) bool { return moods[i] < moods[j] })

	return activities, moods
}
