package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestInit_JSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	defer Init(Config{})

	Info().Msg("hidden")
	Warn().Str("k", "v").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, `"message":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCtx_FallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	defer Init(Config{})

	Ctx(context.Background()).Info().Msg("global")
	if !strings.Contains(buf.String(), "global") {
		t.Fatalf("expected global logger output, got %q", buf.String())
	}

	buf.Reset()
	ctx := WithContext(context.Background(), With("checkout"))
	Ctx(ctx).Info().Msg("scoped")
	if !strings.Contains(buf.String(), `"component":"checkout"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}
