package schema

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfig_LogRedactsPasswords(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	var c ExchangeableConfig
	c.Add("user", String("alice"))
	c.Add("token", Password("s3cr3t"))
	logger.Info("config", zap.Object("config", c))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	fields := entries[0].ContextMap()["config"].(map[string]any)
	if fields["user"] != `String("alice")` {
		t.Errorf("user = %v", fields["user"])
	}
	if fields["token"] != "Password(********)" {
		t.Errorf("token = %v", fields["token"])
	}
}

func TestFormat_LogCounts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	f := NewExchangeFormat(NewText("a"), NewText("b"), Image{})
	logger.Info("frame", zap.Object("frame", f))

	fields := logs.All()[0].ContextMap()["frame"].(map[string]any)
	if fields["items"] != 3 || fields["texts"] != 2 || fields["images"] != 1 {
		t.Errorf("fields = %v", fields)
	}
}
