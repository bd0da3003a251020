package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	TelegramBotToken string
	DatabaseURL      string
	RedisURL         string

	FundamentusBaseURL string
	SnapshotPollSecs   int
	SnapshotTTLSecs    int

	LedgerCSVPath   string
	SnapshotCSVPath string

	MonthlySellCap float64
	StopLossAlpha  float64
	TakeProfitPct  float64
	MinAvgVolume2M float64
	Workers        int

	OpenAIAPIKey      string
	OpenAIModel       string
	AdvisorMaxHistory int

	SSHBind        string
	SSHPort        int
	SSHHostKeyPath string

	HTTPPort int
	APIKey   string
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           os.Getenv("API_KEY"),
		LedgerCSVPath:    strings.TrimSpace(os.Getenv("LEDGER_CSV_PATH")),
		SnapshotCSVPath:  strings.TrimSpace(os.Getenv("SNAPSHOT_CSV_PATH")),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, ledger falls back to CSV statements")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.FundamentusBaseURL = strings.TrimSpace(os.Getenv("FUNDAMENTUS_BASE_URL"))
	if cfg.FundamentusBaseURL == "" {
		cfg.FundamentusBaseURL = "https://www.fundamentus.com.br"
	}

	cfg.SnapshotPollSecs = 3600
	if v := os.Getenv("SNAPSHOT_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SnapshotPollSecs = n
		}
	}

	cfg.SnapshotTTLSecs = 3600
	if v := os.Getenv("SNAPSHOT_TTL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SnapshotTTLSecs = n
		}
	}

	cfg.MonthlySellCap = 20_000
	if v := strings.TrimSpace(os.Getenv("MONTHLY_SELL_CAP")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.MonthlySellCap = f
		}
	}

	cfg.StopLossAlpha = 0.5
	if v := strings.TrimSpace(os.Getenv("STOP_LOSS_ALPHA")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.StopLossAlpha = f
		}
	}

	cfg.TakeProfitPct = 0.10
	if v := strings.TrimSpace(os.Getenv("TAKE_PROFIT_PCT")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.TakeProfitPct = f
		}
	}

	cfg.MinAvgVolume2M = 100_000
	if v := strings.TrimSpace(os.Getenv("MIN_AVG_VOLUME_2M")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.MinAvgVolume2M = f
		}
	}

	cfg.Workers = 4
	if v := os.Getenv("ANALYSIS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, advisor will be disabled")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.AdvisorMaxHistory = 20
	if v := os.Getenv("ADVISOR_MAX_HISTORY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AdvisorMaxHistory = n
		}
	}

	cfg.SSHBind = strings.TrimSpace(os.Getenv("SSH_BIND"))
	if cfg.SSHBind == "" {
		cfg.SSHBind = "0.0.0.0"
	}

	cfg.SSHPort = 23234
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/acionista_ed25519"
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	return cfg
}
