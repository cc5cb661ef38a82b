package config

import "testing"

func TestParseOrigins(t *testing.T) {
	if got := parseOrigins(""); got != nil {
		t.Errorf("parseOrigins(\"\") = %v, want nil", got)
	}

	got := parseOrigins("https://a.example, https://b.example ,,")
	want := []string{"https://a.example", "https://b.example"}
	if len(got) != len(want) {
		t.Fatalf("parseOrigins = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseOrigins[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("EXAMLY_TEST_STR", "set")
	if got := getEnv("EXAMLY_TEST_STR", "fallback"); got != "set" {
		t.Errorf("getEnv = %q, want %q", got, "set")
	}
	if got := getEnv("EXAMLY_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv = %q, want %q", got, "fallback")
	}

	t.Setenv("EXAMLY_TEST_INT", "12")
	if got := getEnvInt("EXAMLY_TEST_INT", 5); got != 12 {
		t.Errorf("getEnvInt = %d, want 12", got)
	}
	t.Setenv("EXAMLY_TEST_BAD_INT", "nope")
	if got := getEnvInt("EXAMLY_TEST_BAD_INT", 5); got != 5 {
		t.Errorf("getEnvInt = %d, want fallback 5", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.IntegrityThreshold != 5 {
		t.Errorf("IntegrityThreshold = %d, want 5", cfg.IntegrityThreshold)
	}
	if cfg.ExpiryScanInterval <= 0 || cfg.ExpiryGrace <= 0 {
		t.Errorf("expiry settings must be positive: %v / %v", cfg.ExpiryScanInterval, cfg.ExpiryGrace)
	}
	if cfg.ServerPort == "" {
		t.Error("ServerPort must default to a value")
	}
}
