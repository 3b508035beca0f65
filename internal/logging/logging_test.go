package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"celeste@example.org", "c***@example.org"},
		{"Domaine <contact@domaine.fr>", "c***@domaine.fr"},
		{"x@y.z", "x***@y.z"},
		{"not-an-address", "***"},
		{"@example.org", "***"},
		{"", "***"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := MaskEmail(tt.in); got != tt.want {
				t.Errorf("MaskEmail(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFieldsReachTheLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	ForQuote("q-1").Info("sent",
		Recipients("to", []string{"celeste@example.org"}),
		Money("total", decimal.RequireFromString("3640.5")))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["quote_id"] != "q-1" {
		t.Errorf("quote_id = %v", fields["quote_id"])
	}
	if fields["total"] != "3640.50" {
		t.Errorf("total = %v", fields["total"])
	}
	to, ok := fields["to"].([]interface{})
	if !ok || len(to) != 1 || to[0] != "c***@example.org" {
		t.Errorf("to = %#v", fields["to"])
	}
}

func TestBuildWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.log")
	logger, err := Build(Config{Level: "warn", Format: "json", Output: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "dropped") || !strings.Contains(out, `"msg":"kept"`) {
		t.Errorf("log file:\n%s", out)
	}
}

func TestReplaceRestores(t *testing.T) {
	prev := Logger
	restore := Replace(zap.NewNop())
	if Logger == prev {
		t.Fatal("logger not replaced")
	}
	restore()
	if Logger != prev {
		t.Error("logger not restored")
	}
}
