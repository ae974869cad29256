package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pbaille/moodlog/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Moods     MoodsConfig     `yaml:"moods"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Streaks   StreaksConfig   `yaml:"streaks"`
	Stats     StatsConfig     `yaml:"stats"`
	Suggest   SuggestConfig   `yaml:"suggest"`
	Server    ServerConfig    `yaml:"server"`
}

// StoreConfig holds entry-store file locations.
type StoreConfig struct {
	DataFile   string `yaml:"data_file"   env:"MOODLOG_DATA_FILE"   env-default:"data/mood_data.csv"`
	ExportFile string `yaml:"export_file" env:"MOODLOG_EXPORT_FILE" env-default:"data/mood_data_export.csv"`
}

// MoodsConfig extends the recognized vocabulary and picks the positive subset.
type MoodsConfig struct {
	Extra    []string `yaml:"extra"    env:"MOODLOG_MOODS_EXTRA"`
	Positive []string `yaml:"positive" env:"MOODLOG_MOODS_POSITIVE" env-default:"happy,excited,content,calm,energetic"`
}

// SentimentConfig holds the band classification threshold.
type SentimentConfig struct {
	BandThreshold float64 `yaml:"band_threshold" env:"MOODLOG_BAND_THRESHOLD" env-default:"0.1"`
}

// StreaksConfig holds the zero-entry-day policy.
// With bridge_gaps false, a calendar day without entries breaks a streak.
type StreaksConfig struct {
	BridgeGaps bool `yaml:"bridge_gaps" env:"MOODLOG_STREAK_BRIDGE_GAPS" env-default:"false"`
}

// StatsConfig holds the activity tag treated as the productivity signal.
type StatsConfig struct {
	ProductivityTag string `yaml:"productivity_tag" env:"MOODLOG_PRODUCTIVITY_TAG" env-default:"work"`
}

// SuggestConfig holds settings for the external suggestion collaborator.
type SuggestConfig struct {
	Model   string        `yaml:"model"   env:"MOODLOG_SUGGEST_MODEL"   env-default:"gpt-4o-mini"`
	Timeout time.Duration `yaml:"timeout" env:"MOODLOG_SUGGEST_TIMEOUT" env-default:"10s"`
	APIKey  string        `yaml:"-"       env:"OPENAI_API_KEY"`
}

// ServerConfig holds the REST server listen address.
type ServerConfig struct {
	Addr string `yaml:"addr" env:"MOODLOG_ADDR" env-default:":8080"`
}

// Vocabulary returns the recognized mood set: the built-in vocabulary plus
// any configured extras. Configured values are trimmed and lowercased so
// they match input normalized at the boundary.
func (c *Config) Vocabulary() domain.Vocabulary {
	moods := domain.DefaultVocabulary().Moods()
	for _, m := range c.Moods.Extra {
		moods = append(moods, normalizeMood(m))
	}
	return domain.NewVocabulary(moods...)
}

// PositiveSet returns the configured positive-mood subset, normalized the
// same way as Vocabulary.
func (c *Config) PositiveSet() map[domain.Mood]bool {
	set := make(map[domain.Mood]bool, len(c.Moods.Positive))
	for _, m := range c.Moods.Positive {
		set[normalizeMood(m)] = true
	}
	return set
}

func normalizeMood(raw string) domain.Mood {
	return domain.Mood(strings.ToLower(strings.TrimSpace(raw)))
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Store.DataFile == "" {
		return fmt.Errorf("store.data_file must not be empty")
	}
	if c.Sentiment.BandThreshold <= 0 || c.Sentiment.BandThreshold >= 1 {
		return fmt.Errorf("sentiment.band_threshold must be in (0, 1), got %v", c.Sentiment.BandThreshold)
	}
	if c.Stats.ProductivityTag == "" {
		return fmt.Errorf("stats.productivity_tag must not be empty")
	}
	if c.Suggest.Timeout <= 0 {
		return fmt.Errorf("suggest.timeout must be positive, got %v", c.Suggest.Timeout)
	}
	vocab := c.Vocabulary()
	for _, m := range c.Moods.Positive {
		if !vocab.Contains(normalizeMood(m)) {
			return fmt.Errorf("moods.positive: %q is not in the recognized vocabulary", m)
		}
	}
	return nil
}
