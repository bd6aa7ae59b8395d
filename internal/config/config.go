package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thorfin/insights-backend/internal/logger"
	"github.com/thorfin/insights-backend/internal/utils"
)

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type AIConfig struct {
	BaseURL            string  `yaml:"base_url"`
	Model              string  `yaml:"model"`
	APIVersion         string  `yaml:"api_version"`
	TimeoutSeconds     int     `yaml:"timeout_seconds"`
	MaxTokens          int     `yaml:"max_tokens"`
	Temperature        float64 `yaml:"temperature"`
	DefaultInstruction string  `yaml:"default_instruction"`

	// APIKey comes from the environment only, never from the config file.
	APIKey string `yaml:"-"`
}

func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TuningConfig carries the display/performance caps inherited from the
// dashboard. They are tuning knobs, not invariants.
type TuningConfig struct {
	ParetoTopN        int `yaml:"pareto_top_n"`
	WordcloudMaxChars int `yaml:"wordcloud_max_chars"`
	SummaryReviewCap  int `yaml:"summary_review_cap"`
	ExcerptCap        int `yaml:"excerpt_cap"`
	ExcerptWrapWidth  int `yaml:"excerpt_wrap_width"`
	PairwiseSampleCap int `yaml:"pairwise_sample_cap"`
	PairwiseSeed      int `yaml:"pairwise_seed"`
}

type ChartConfig struct {
	FontPath string `yaml:"font_path"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	AI     AIConfig     `yaml:"ai"`
	Tuning TuningConfig `yaml:"tuning"`
	Charts ChartConfig  `yaml:"charts"`
	Export ExportConfig `yaml:"export"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port: "8080",
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
			},
		},
		AI: AIConfig{
			BaseURL:            "https://api.openai.com",
			Model:              "gpt-4o-mini",
			TimeoutSeconds:     120,
			MaxTokens:          700,
			Temperature:        0.2,
			DefaultInstruction: "Concise 4-point summary: pros, cons, trends, suggestions.",
		},
		Tuning: TuningConfig{
			ParetoTopN:        20,
			WordcloudMaxChars: 2000,
			SummaryReviewCap:  30,
			ExcerptCap:        20,
			ExcerptWrapWidth:  120,
			PairwiseSampleCap: 200,
			PairwiseSeed:      42,
		},
		Export: ExportConfig{Dir: "reports"},
	}
}

// Load builds the effective configuration: defaults, then the optional YAML
// file at CONFIG_PATH, then env overrides.
func Load(log *logger.Logger) (Config, error) {
	cfg := Default()

	path := utils.GetEnv("CONFIG_PATH", "", log)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	}

	cfg.Server.Port = utils.GetEnv("PORT", cfg.Server.Port, log)
	cfg.AI.APIKey = utils.GetEnv("AI_API_KEY", os.Getenv("OPENAI_API_KEY"), nil)
	cfg.AI.BaseURL = utils.GetEnv("AI_BASE_URL", cfg.AI.BaseURL, log)
	cfg.AI.Model = utils.GetEnv("AI_MODEL", cfg.AI.Model, log)
	cfg.AI.APIVersion = utils.GetEnv("AI_API_VERSION", cfg.AI.APIVersion, log)
	cfg.AI.TimeoutSeconds = utils.GetEnvAsInt("AI_TIMEOUT_SECONDS", cfg.AI.TimeoutSeconds, log)
	cfg.Charts.FontPath = utils.GetEnv("CHART_FONT", cfg.Charts.FontPath, log)
	cfg.Export.Dir = utils.GetEnv("EXPORT_DIR", cfg.Export.Dir, log)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Tuning.ParetoTopN <= 0 {
		return fmt.Errorf("tuning.pareto_top_n must be positive, got %d", c.Tuning.ParetoTopN)
	}
	if c.Tuning.WordcloudMaxChars <= 0 {
		return fmt.Errorf("tuning.wordcloud_max_chars must be positive, got %d", c.Tuning.WordcloudMaxChars)
	}
	if c.Tuning.SummaryReviewCap <= 0 {
		return fmt.Errorf("tuning.summary_review_cap must be positive, got %d", c.Tuning.SummaryReviewCap)
	}
	if c.Tuning.PairwiseSampleCap <= 0 {
		return fmt.Errorf("tuning.pairwise_sample_cap must be positive, got %d", c.Tuning.PairwiseSampleCap)
	}
	return nil
}
