package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetLogLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{input: "DEBUG", want: zerolog.DebugLevel},
		{input: "warn", want: zerolog.WarnLevel},
		{input: "ERROR", want: zerolog.ErrorLevel},
		{input: "DISABLED", want: zerolog.Disabled},
		{input: "verbose", want: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			setLogLevel(tt.input)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}
