package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CDEK_CLIENT_ID", "")
	t.Setenv("INVEST_BASE_URL", "")

	cfg := Load()
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr: %q", cfg.HTTPAddr)
	}
	if !cfg.CdekDemo() {
		t.Error("no CDEK credentials must mean demo mode")
	}
	if !cfg.InvestDemo() {
		t.Error("no invest URL must mean demo mode")
	}
}

func TestLoadLiveMode(t *testing.T) {
	t.Setenv("CDEK_CLIENT_ID", "client")
	t.Setenv("CDEK_CLIENT_SECRET", "secret")
	t.Setenv("INVEST_BASE_URL", "https://example.com/api/Investment")

	cfg := Load()
	if cfg.CdekDemo() {
		t.Error("credentials present must mean live mode")
	}
	if cfg.InvestDemo() {
		t.Error("invest URL present must mean live mode")
	}
}

func TestKafkaBrokersCSV(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092 ,,c:9092")
	cfg := Load()
	want := []string{"a:9092", "b:9092", "c:9092"}
	if len(cfg.KafkaBrokers) != len(want) {
		t.Fatalf("brokers: %v", cfg.KafkaBrokers)
	}
	for i := range want {
		if cfg.KafkaBrokers[i] != want[i] {
			t.Errorf("broker %d: %q", i, cfg.KafkaBrokers[i])
		}
	}
}
