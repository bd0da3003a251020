package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("FUNDAMENTUS_BASE_URL", "")
	t.Setenv("MONTHLY_SELL_CAP", "")
	t.Setenv("STOP_LOSS_ALPHA", "")
	t.Setenv("SNAPSHOT_POLL_SECS", "")

	cfg := Load()
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.FundamentusBaseURL != "https://www.fundamentus.com.br" {
		t.Fatalf("expected default fundamentus url, got %s", cfg.FundamentusBaseURL)
	}
	if cfg.MonthlySellCap != 20_000 {
		t.Fatalf("expected default sell cap 20000, got %f", cfg.MonthlySellCap)
	}
	if cfg.StopLossAlpha != 0.5 {
		t.Fatalf("expected default alpha 0.5, got %f", cfg.StopLossAlpha)
	}
	if cfg.SnapshotPollSecs != 3600 {
		t.Fatalf("expected default poll secs 3600, got %d", cfg.SnapshotPollSecs)
	}
	if cfg.Workers != 4 {
		t.Fatalf("expected default workers 4, got %d", cfg.Workers)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("MONTHLY_SELL_CAP", "50000")
	t.Setenv("STOP_LOSS_ALPHA", "0.7")
	t.Setenv("LEDGER_CSV_PATH", "statements/2026.csv")

	cfg := Load()
	if cfg.TelegramBotToken != "token" || cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MonthlySellCap != 50000 {
		t.Fatalf("expected sell cap 50000, got %f", cfg.MonthlySellCap)
	}
	if cfg.StopLossAlpha != 0.7 {
		t.Fatalf("expected alpha 0.7, got %f", cfg.StopLossAlpha)
	}
	if cfg.LedgerCSVPath != "statements/2026.csv" {
		t.Fatalf("expected ledger path, got %s", cfg.LedgerCSVPath)
	}

	t.Setenv("MONTHLY_SELL_CAP", "bad")
	t.Setenv("STOP_LOSS_ALPHA", "2")
	cfg = Load()
	if cfg.MonthlySellCap != 20_000 {
		t.Fatalf("invalid sell cap should fall back to default, got %f", cfg.MonthlySellCap)
	}
	if cfg.StopLossAlpha != 0.5 {
		t.Fatalf("out-of-range alpha should fall back to default, got %f", cfg.StopLossAlpha)
	}
}
