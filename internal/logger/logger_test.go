package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   Debug,
		" DEBUG ": Debug,
		"info":    Info,
		"warn":    Warn,
		"warning": Warn,
		"error":   Error,
		"":        Info,
		"verbose": Info,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNopLoggerWith(t *testing.T) {
	l := NewNop().With("request_id", "abc")
	l.Infow("placed", "user_id", 1)
	l.Debugf("%d", 1)
	assert.NoError(t, l.Sync())
}
