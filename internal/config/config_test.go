package config

import "testing"

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cron.DecisionPoll != "@every 15s" {
		t.Fatalf("decision_poll=%q", cfg.Cron.DecisionPoll)
	}
	if cfg.Cron.PortfolioPoll != "@every 30s" {
		t.Fatalf("portfolio_poll=%q", cfg.Cron.PortfolioPoll)
	}
	// Every cadence comes from config, the threshold mirror included.
	if cfg.Cron.ThresholdSync != "@every 5m" {
		t.Fatalf("threshold_sync=%q", cfg.Cron.ThresholdSync)
	}
	if cfg.Dashboard.PageSize != 8 {
		t.Fatalf("page_size=%d", cfg.Dashboard.PageSize)
	}
	if !cfg.Cron.Enabled {
		t.Fatalf("cron should default to enabled")
	}
}
