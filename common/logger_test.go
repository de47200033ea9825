package common

import (
	"bytes"
	"encoding/json"
	"log"
	"log/slog"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	logRegexPrefix = "\\[Courier\\] [0-9]*/[0-1][0-9]/[0-3][0-9] [0-2][0-9]:[0-5][0-9]:[0-5][0-9] "
)

var (
	_ Logger = NopLogger{}
	_ Logger = (*StdLogger)(nil)
	_ Logger = (*ZerologLogger)(nil)
	_ Logger = (*TestLogger)(nil)
	_ Logger = (*slog.Logger)(nil)
)

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "[Courier] ", log.LstdFlags))

	l.Warn("try failed", "attempt", 1, "topic", "customers")
	require.Regexp(t, regexp.MustCompile(logRegexPrefix+"WARN try failed attempt=1 topic=customers\n"), buf.String())

	buf.Reset()
	l.Error("odd", "lonely")
	require.Regexp(t, regexp.MustCompile(logRegexPrefix+"ERROR odd lonely=<missing>\n"), buf.String())

	buf.Reset()
	l.Info("plain")
	require.Regexp(t, regexp.MustCompile(logRegexPrefix+"INFO plain\n"), buf.String())
}

func TestStdLoggerDiscardsByDefault(t *testing.T) {
	l := NewStdLogger(nil)
	require.NotPanics(t, func() { l.Error("nobody hears this", "k", "v") })
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLogger(zerolog.New(&buf))

	l.Error("all retries failed", "topic", "customers", "key", "k1")

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	require.Equal(t, "error", event["level"])
	require.Equal(t, "all retries failed", event["message"])
	require.Equal(t, "customers", event["topic"])
	require.Equal(t, "k1", event["key"])
}

func TestTestLogger(t *testing.T) {
	tl := NewTestLogger()
	tl.Warn("try 1 failed", "attempt", 1)
	tl.Warn("try 2 failed", "attempt", 2)
	tl.Error("all retries failed")

	require.Equal(t, 2, tl.Count(LevelWarn, "failed"))
	require.Equal(t, 3, tl.Count("", "failed"))
	require.Equal(t, 0, tl.Count(LevelError, "try"))

	e, ok := tl.Find(LevelWarn, "try 2")
	require.True(t, ok)
	require.Equal(t, 2, e.Fields["attempt"])
}
