package config

import "testing"

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error: %v", err)
	}
	if cfg.PassThreshold != DefaultPassThreshold {
		t.Fatalf("PassThreshold = %v, want %v", cfg.PassThreshold, DefaultPassThreshold)
	}
	if cfg.Report.Timezone != DefaultReportTimezone {
		t.Fatalf("Report.Timezone = %q, want %q", cfg.Report.Timezone, DefaultReportTimezone)
	}
	if cfg.Report.Dir == "" {
		t.Fatal("Report.Dir default missing")
	}
}

func TestNewConfigRejectsBadThreshold(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"above one", "1.5"},
		{"zero", "0"},
		{"negative", "-0.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PASS_THRESHOLD", tt.value)
			cfg, err := NewConfig()
			if err != nil {
				t.Fatalf("NewConfig() error: %v", err)
			}
			if cfg.PassThreshold != DefaultPassThreshold {
				t.Fatalf("PassThreshold = %v, want default %v", cfg.PassThreshold, DefaultPassThreshold)
			}
		})
	}
}

func TestNewConfigAcceptsCustomThreshold(t *testing.T) {
	t.Setenv("PASS_THRESHOLD", "0.75")
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error: %v", err)
	}
	if cfg.PassThreshold != 0.75 {
		t.Fatalf("PassThreshold = %v, want 0.75", cfg.PassThreshold)
	}
}
