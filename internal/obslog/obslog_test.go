package obslog

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevelKnownNames(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zap.DebugLevel,
		"Debug": zap.DebugLevel,
		"warn":  zap.WarnLevel,
		"error": zap.ErrorLevel,
		"":      zap.InfoLevel,
		"huh":   zap.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewNeverReturnsNil(t *testing.T) {
	logger := New(Config{})
	if logger == nil {
		t.Fatal("expected a non-nil logger for the zero Config")
	}
	logger.Info("smoke test")
}

func TestNewProdUsesJSONEncoding(t *testing.T) {
	logger := New(Config{Env: "prod", Level: "debug", LogFile: t.TempDir() + "/rashc.log"})
	if logger == nil {
		t.Fatal("expected a non-nil logger in prod mode")
	}
	logger.Debug("prod smoke test")
}

func TestNopIsSafeToCall(t *testing.T) {
	logger := Nop()
	if logger == nil {
		t.Fatal("Nop should never return nil")
	}
	logger.Error("this should go nowhere")
}

func TestFromEnvironReadsExpectedVars(t *testing.T) {
	t.Setenv("RASHC_ENV", "prod")
	t.Setenv("RASHC_LOG_LEVEL", "warn")
	cfg := FromEnviron()
	if cfg.Env != "prod" || cfg.Level != "warn" {
		t.Fatalf("expected Env=prod Level=warn, got %+v", cfg)
	}
}
