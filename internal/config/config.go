package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Game struct {
		URL                  string `yaml:"url"`
		ReadyTimeoutSeconds  int    `yaml:"ready_timeout_seconds"`
		ActionTimeoutSeconds int    `yaml:"action_timeout_seconds"`
	} `yaml:"game"`
	Browser struct {
		Headless      bool `yaml:"headless"`
		WindowWidth   int  `yaml:"window_width"`
		WindowHeight  int  `yaml:"window_height"`
		DisableImages bool `yaml:"disable_images"`
	} `yaml:"browser"`
	Run struct {
		DurationSeconds     int     `yaml:"duration_seconds"`
		InitialThreshold    float64 `yaml:"initial_threshold"`
		PurchaseEveryClicks int64   `yaml:"purchase_every_clicks"`
		ReportEveryClicks   int64   `yaml:"report_every_clicks"`
		Cron                string  `yaml:"cron"`
	} `yaml:"run"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Stats struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"stats"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("GAME_URL"); v != "" {
		cfg.Game.URL = v
	}
	if v := os.Getenv("COOKIEPILOT_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Browser.Headless = b
		}
	}
	if v := os.Getenv("RUN_DURATION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Run.DurationSeconds = n
		}
	}
	if v := os.Getenv("RUN_CRON"); v != "" {
		cfg.Run.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.Stats.StateFile = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}

	// Defaults
	if cfg.Game.URL == "" {
		cfg.Game.URL = "https://orteil.dashnet.org/cookieclicker/"
	}
	if cfg.Game.ReadyTimeoutSeconds == 0 {
		cfg.Game.ReadyTimeoutSeconds = 30
	}
	if cfg.Game.ActionTimeoutSeconds == 0 {
		cfg.Game.ActionTimeoutSeconds = 10
	}
	if cfg.Browser.WindowWidth == 0 {
		cfg.Browser.WindowWidth = 1920
	}
	if cfg.Browser.WindowHeight == 0 {
		cfg.Browser.WindowHeight = 1080
	}
	if cfg.Run.DurationSeconds == 0 {
		cfg.Run.DurationSeconds = 60
	}
	if cfg.Run.InitialThreshold == 0 {
		cfg.Run.InitialThreshold = 10
	}
	if cfg.Run.PurchaseEveryClicks == 0 {
		cfg.Run.PurchaseEveryClicks = 10
	}
	if cfg.Run.ReportEveryClicks == 0 {
		cfg.Run.ReportEveryClicks = 100
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/cookiepilot.db"
	}
	if cfg.Stats.StateFile == "" {
		cfg.Stats.StateFile = "data/bot_state.json"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Game.URL == "" {
		return fmt.Errorf("game.url is required")
	}
	if c.Game.ReadyTimeoutSeconds <= 0 {
		return fmt.Errorf("game.ready_timeout_seconds must be positive")
	}
	if c.Run.DurationSeconds < 0 {
		return fmt.Errorf("run.duration_seconds must not be negative")
	}
	if c.Run.InitialThreshold < 0 {
		return fmt.Errorf("run.initial_threshold must not be negative")
	}
	if c.Run.PurchaseEveryClicks <= 0 {
		return fmt.Errorf("run.purchase_every_clicks must be positive")
	}
	if c.Run.ReportEveryClicks <= 0 {
		return fmt.Errorf("run.report_every_clicks must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
