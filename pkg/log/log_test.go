package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"DonorLane/internal/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// createTestLogger 创建写入内存缓冲区的日志记录器
func createTestLogger() (*LogHelper, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:  "msg",
		LevelKey:    "level",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(buf), zapcore.DebugLevel)
	return NewLogHelper(NewKratosAdapter(zap.New(core))), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(strings.Split(buf.String(), "\n")[0])
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &out))
	return out
}

func TestKratosAdapter_MessageAndFields(t *testing.T) {
	helper, buf := createTestLogger()

	helper.Warnw("msg", "audit log channel full", "entity_type", "event", "error", errors.New("boom"))

	entry := decodeLine(t, buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "audit log channel full", entry["msg"])
	assert.Equal(t, "event", entry["entity_type"])
	assert.Equal(t, "boom", entry["error"])
}

func TestKratosAdapter_SanitizesSensitiveStrings(t *testing.T) {
	helper, buf := createTestLogger()

	helper.Infow("msg", "donor created", "email", "jane.doe@example.org", "api_key", "sk-1234567890abcdef")

	entry := decodeLine(t, buf)
	assert.Equal(t, "jan***@example.org", entry["email"])
	assert.Equal(t, "sk-1***********cdef", entry["api_key"])
}

func TestKratosAdapter_EmptyKeyvals(t *testing.T) {
	adapter := NewKratosAdapter(zap.NewNop())
	assert.NoError(t, adapter.Log(0))
}

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		expected string
	}{
		{"password long", "password", "mysecretpassword123", "myse***********d123"},
		{"password short", "pwd", "abc", "a*c"},
		{"very short secret", "secret", "ab", "**"},
		{"uppercase token key", "ACCESS_TOKEN", "abcdefghijkl", "abcd****ijkl"},
		{"salt", "salt", "pepper", "p****r"},
		{"email", "email", "jane@example.org", "jan***@example.org"},
		{"short email", "donor_email", "jo@example.org", "j*@example.org"},
		{"invalid email", "email", "nope", "****"},
		{"phone", "phone", "+1-555-0100", "*******0100"},
		{"plain field", "city", "Toronto", "Toronto"},
		{"empty value", "password", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeField(tt.key, tt.value))
		})
	}
}

func TestLogHelper_TypedHelpers(t *testing.T) {
	tests := []struct {
		name     string
		call     func(h *LogHelper)
		wantType string
		wantLvl  string
	}{
		{"match", func(h *LogHelper) { h.Match("matched donors", "count", 3) }, "match", "info"},
		{"donor", func(h *LogHelper) { h.Donor("donor updated") }, "donor", "info"},
		{"event", func(h *LogHelper) { h.Event("event created") }, "event", "info"},
		{"audit", func(h *LogHelper) { h.Audit("audit entry written") }, "audit", "info"},
		{"scheduler", func(h *LogHelper) { h.Scheduler("baseline scheduled") }, "scheduler", "info"},
		{"database", func(h *LogHelper) { h.Database("migrated") }, "database", "debug"},
		{"cache", func(h *LogHelper) { h.Cache("cache miss") }, "cache", "debug"},
		{"startup", func(h *LogHelper) { h.Startup("listening") }, "startup", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			helper, buf := createTestLogger()
			tt.call(helper)
			entry := decodeLine(t, buf)
			assert.Equal(t, tt.wantType, entry["type"])
			assert.Equal(t, tt.wantLvl, entry["level"])
		})
	}
}

func TestLogHelper_RequestWithContext(t *testing.T) {
	helper, buf := createTestLogger()
	actor := int64(42)
	ctx := WithRequestContext(context.Background(), "req-1", &actor, "10.0.0.1")

	helper.RequestWithContext(ctx, "GET", "/api/v1/donors", 200, 12)

	entry := decodeLine(t, buf)
	assert.Equal(t, "request", entry["type"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "10.0.0.1", entry["client_ip"])
	assert.EqualValues(t, 42, entry["actor_id"])
	assert.EqualValues(t, 200, entry["status"])
}

func TestLogHelper_RequestWithContext_SlowRequest(t *testing.T) {
	helper, buf := createTestLogger()

	helper.RequestWithContext(context.Background(), "POST", "/api/v1/donors/match", 200, 2500)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "slow request")
}

func TestRequestContext(t *testing.T) {
	t.Run("missing context values", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, "unknown", GetRequestID(ctx))
		assert.Nil(t, GetActorID(ctx))
		assert.Empty(t, GetClientIP(ctx))
		assert.Zero(t, GetElapsedTime(ctx))
	})

	t.Run("populated context", func(t *testing.T) {
		actor := int64(7)
		ctx := WithRequestContext(context.Background(), "abc", &actor, "192.168.1.10")
		assert.Equal(t, "abc", GetRequestID(ctx))
		require.NotNil(t, GetActorID(ctx))
		assert.Equal(t, int64(7), *GetActorID(ctx))
		assert.Equal(t, "192.168.1.10", GetClientIP(ctx))
	})

	t.Run("generated ids are distinct", func(t *testing.T) {
		a, b := GenerateRequestID(), GenerateRequestID()
		assert.Len(t, a, 8)
		assert.NotEqual(t, a, b)
	})
}

func TestEmojiConsoleEncoder(t *testing.T) {
	enc := NewEmojiConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"})

	tests := []struct {
		name   string
		level  zapcore.Level
		fields []zapcore.Field
		prefix string
	}{
		{"type field", zapcore.InfoLevel, []zapcore.Field{zap.String("type", "match")}, "🎯"},
		{"status wins over type", zapcore.InfoLevel, []zapcore.Field{zap.String("type", "request"), zap.Int64("status", 404)}, "🟠"},
		{"server error status", zapcore.InfoLevel, []zapcore.Field{zap.Int64("status", 503)}, "🔴"},
		{"level fallback", zapcore.WarnLevel, nil, "⚠️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := enc.EncodeEntry(zapcore.Entry{Level: tt.level, Message: "hello"}, tt.fields)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(buf.String(), tt.prefix+" hello"), buf.String())
		})
	}

	assert.NotNil(t, enc.Clone())
}

func TestNewZapLogger(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewZapLogger(nil)
		assert.Error(t, err)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := NewZapLogger(&conf.Log{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("console format with file output", func(t *testing.T) {
		logger, err := NewZapLogger(&conf.Log{
			Level:      "debug",
			Format:     "console",
			Env:        "development",
			OutputFile: t.TempDir() + "/donorlane.log",
		})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})
}
