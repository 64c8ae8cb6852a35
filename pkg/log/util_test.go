package log

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type policy string

func (p policy) String() string { return string(p) }

func TestToFields(t *testing.T) {
	now := time.Now()
	err := errors.New("boom")

	tests := []struct {
		name     string
		input    []any
		wantKeys []string
	}{
		{"empty input", []any{}, nil},
		{"string-int-bool", []any{"a", "x", "b", 123, "c", true}, []string{"a", "b", "c"}},
		{"time type", []any{"t", now}, []string{"t"}},
		{"string slice", []any{"chain", []string{"leaf", "root"}}, []string{"chain"}},
		{"stringer", []any{"policyErrors", policy("None")}, []string{"policyErrors"}},
		{"error only", []any{err}, []string{"error"}},
		{"mixed field types", []any{"msg", "ok", zap.String("x", "y"), "num", 42}, []string{"msg", "x", "num"}},
		{"odd number of args", []any{"key1", "val1", "key2"}, []string{"key1", "arg#2"}},
		{"non-string key", []any{123, "value"}, []string{"invalid_key_1"}},
		{"nil values", []any{"a", nil, "b", (*int)(nil)}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := toFields(tt.input...)

			keys := make([]string, 0, len(fields))
			for _, f := range fields {
				assert.NotEmpty(t, f.Key)
				keys = append(keys, f.Key)
			}
			if tt.wantKeys == nil {
				assert.Empty(t, keys)
				return
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestFromZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).WithName("certinspect").WithValues("invocation", "abc")

	l.Info("certificate inspected", "subject", "CN=testapi.trtn.com", "accepted", true)
	l.Error(errors.New("rejected"), "handshake failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "certinspect", entries[0].LoggerName)
	assert.Equal(t, "CN=testapi.trtn.com", entries[0].ContextMap()["subject"])
	assert.Equal(t, "abc", entries[0].ContextMap()["invocation"])
	assert.Equal(t, "rejected", entries[1].ContextMap()["error"])
}

func TestLogr(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	FromZap(zap.New(core)).Logr().WithName("klog").Info("routed", "component", "apiserver")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "klog", entries[0].LoggerName)
	assert.Equal(t, "apiserver", entries[0].ContextMap()["component"])
}

func TestOptionsValidate(t *testing.T) {
	o := NewOptions()
	assert.Empty(t, o.Validate())

	o.Format = "xml"
	o.Level = "loud"
	assert.Len(t, o.Validate(), 2)
}

func TestNewLoggerBadOutputPath(t *testing.T) {
	o := NewOptions()
	o.OutputPaths = []string{filepath.Join(t.TempDir(), "missing", "gatectl.log")}

	l, err := NewLogger(o)
	require.Error(t, err)
	assert.Nil(t, l)

	before := Std()
	_, err = Init(o)
	require.Error(t, err)
	assert.Same(t, before, Std())
}

func TestCallerAnnotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gatectl.log")
	o := NewOptions()
	o.Format = "json"
	o.OutputPaths = []string{path}

	l, err := Init(o)
	require.NoError(t, err)
	t.Cleanup(func() {
		mu.Lock()
		std = NewNopLogger()
		mu.Unlock()
	})

	l.WithName("certinspect").Info("instance call")
	Info("package call")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Contains(t, entry["caller"], "log/util_test.go", entry["message"])
	}
}
