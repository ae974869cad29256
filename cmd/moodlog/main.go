package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pbaille/moodlog/internal/analytics"
	"github.com/pbaille/moodlog/internal/api"
	"github.com/pbaille/moodlog/internal/config"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/sentiment"
	"github.com/pbaille/moodlog/internal/store"
	"github.com/pbaille/moodlog/internal/suggest"
)

var (
	dataFile string
	cfg      *config.Config
	logger   *log.Logger
)

func main() {
	logger = log.New(os.Stderr)

	c, err := config.Load()
	if err != nil {
		logger.Error("configuration failed", "err", err)
		os.Exit(1)
	}
	cfg = c

	rootCmd := &cobra.Command{
		Use:   "moodlog",
		Short: "Personal mood tracker with sentiment analytics",
	}

	rootCmd.PersistentFlags().StringVar(&dataFile, "data", cfg.Store.DataFile, "data file path")

	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(streaksCmd())
	rootCmd.AddCommand(correlateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newScorer() *sentiment.Scorer {
	return sentiment.NewScorer(cfg.Sentiment.BandThreshold)
}

func getStore() (*store.Store, error) {
	return store.New(dataFile, cfg.Vocabulary(), newScorer(), nil)
}

// readHistory degrades storage trouble to warnings so every analytics
// command stays usable with partial or no data.
func readHistory(s *store.Store) []domain.Entry {
	entries, skipped, err := s.Entries()
	if err != nil {
		logger.Warn("history unreadable, continuing with empty history", "err", err)
		return nil
	}
	if skipped > 0 {
		logger.Warn("skipped malformed rows", "count", skipped)
	}
	return entries
}

func logCmd() *cobra.Command {
	var (
		mood       string
		activities []string
		notes      string
		noSuggest  bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log today's mood",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}

			entry, err := s.AddEntry(mood, activities, notes)
			if err != nil {
				return err
			}

			scorer := newScorer()
			band := scorer.Band(entry.SentimentScore)
			fmt.Printf("Logged %s (%s", entry.Mood, band)
			if len(entry.Activities) > 0 {
				fmt.Printf(", activities: %v", entry.Activities)
			}
			fmt.Printf(")\n")
			fmt.Printf("Tip: %s\n", sentiment.Tip(band))

			if noSuggest {
				return nil
			}

			svc, err := suggest.New(cfg.Suggest.APIKey, cfg.Suggest.Model, cfg.Suggest.Timeout)
			if err != nil {
				fmt.Printf("(suggestions skipped: %v)\n", err)
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Suggest.Timeout)
			defer cancel()

			text, err := svc.Suggest(ctx, entry.Mood, entry.Activities)
			if err != nil {
				fmt.Printf("(suggestions skipped: %v)\n", err)
				return nil
			}
			fmt.Printf("\nSuggestions:\n%s\n", text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mood, "mood", "m", "", "how you are feeling (e.g. happy, sad, anxious)")
	cmd.Flags().StringSliceVarP(&activities, "activities", "a", nil, "what you did today (comma-separated)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "additional notes or comments")
	cmd.Flags().BoolVar(&noSuggest, "no-suggest", false, "skip AI suggestions")
	cmd.MarkFlagRequired("mood")
	return cmd
}

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}

			entries := readHistory(s)
			if len(entries) == 0 {
				fmt.Println("No entries yet. Use 'moodlog log' to create one.")
				return nil
			}

			// Newest first.
			shown := 0
			for i := len(entries) - 1; i >= 0 && shown < limit; i-- {
				e := entries[i]
				fmt.Printf("%s  %-10s  %+.2f  %s\n",
					e.Timestamp.Format("2006-01-02 15:04"), e.Mood, e.SentimentScore, e.Notes)
				shown++
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show mood statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}

			entries := readHistory(s)
			if len(entries) == 0 {
				fmt.Println("No data available for analysis.")
				return nil
			}

			scorer := newScorer()
			freq := analytics.MoodFrequency(entries)

			if mood, ok := analytics.MostFrequentMood(entries); ok {
				fmt.Printf("Most frequent mood:   %s (%d times)\n", mood, freq[mood])
			}
			if mood, ok := analytics.MostProductiveMood(entries, cfg.Stats.ProductivityTag); ok {
				fmt.Printf("Most productive mood: %s (entries tagged %q)\n", mood, cfg.Stats.ProductivityTag)
			} else {
				fmt.Printf("Most productive mood: no data (no entries tagged %q)\n", cfg.Stats.ProductivityTag)
			}
			if wd, ok := analytics.BestWeekday(entries, scorer); ok {
				fmt.Printf("Best day of the week: %s\n", wd)
			}

			fmt.Println("\nMood counts:")
			moods := make([]domain.Mood, 0, len(freq))
			for m := range freq {
				moods = append(moods, m)
			}
			sort.Slice(moods, func(i, j int) bool {
				if freq[moods[i]] != freq[moods[j]] {
					return freq[moods[i]] > freq[moods[j]]
				}
				return moods[i] < moods[j]
			})
			for _, m := range moods {
				fmt.Printf("  %-10s %d\n", m, freq[m])
			}

			fmt.Println("\nSentiment distribution:")
			dist := analytics.SentimentDistribution(entries, scorer)
			for _, b := range []domain.Band{domain.BandPositive, domain.BandNeutral, domain.BandNegative} {
				fmt.Printf("  %-8s %d\n", b, dist[b])
			}
			return nil
		},
	}
}

func streaksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streaks",
		Short: "Show positive-day streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}

			entries := readHistory(s)
			streak := analytics.StreaksWith(entries, cfg.PositiveSet(), analytics.StreakOptions{
				BridgeGaps: cfg.Streaks.BridgeGaps,
			})

			fmt.Printf("Current positive streak: %d days\n", streak.Current)
			fmt.Printf("Longest positive streak: %d days\n", streak.Longest)
			return nil
		},
	}
}

func correlateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correlate",
		Short: "Show the activity-mood co-occurrence table",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}

			entries := readHistory(s)
			matrix := analytics.ActivityMoodMatrix(entries)
			if len(matrix) == 0 {
				fmt.Println("No data available to analyze.")
				return nil
			}

			activities, moods := analytics.MatrixAxes(matrix)

			fmt.Printf("%-14s", "")
			for _, m := range moods {
				fmt.Printf("%-12s", m)
			}
			fmt.Println()
			for _, a := range activities {
				fmt.Printf("%-14s", a)
				for _, m := range moods {
					fmt.Printf("%-12d", matrix[a][m])
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [destination]",
		Short: "Export the history to a file in the store's record format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst := cfg.Store.ExportFile
			if len(args) == 1 {
				dst = args[0]
			}

			s, err := getStore()
			if err != nil {
				return err
			}

			if err := s.Export(dst); err != nil {
				return err
			}
			fmt.Printf("Data exported to %s\n", dst)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}

			server := api.New(s, newScorer(), cfg, logger)
			return server.Run(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", cfg.Server.Addr, "server address")
	return cmd
}
