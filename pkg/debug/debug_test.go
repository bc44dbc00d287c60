package debug_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/walteh/tmplc/pkg/debug"
)

func TestCustomTimeHook(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Hook(debug.CustomTimeHook{Format: "2006"})
	log.Info().Msg("hi")

	assert.Contains(t, buf.String(), `"time":"`+time.Now().Format("2006")+`"`)
	assert.Contains(t, buf.String(), `"message":"hi"`)
}

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	log := debug.NewConsoleLogger(&buf, false)

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String(), "debug output requires verbose")

	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewConsoleLoggerVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := debug.NewConsoleLogger(&buf, true)

	log.Debug().Msg("details")
	assert.Contains(t, buf.String(), "details")
}

func TestFormatCaller(t *testing.T) {
	tests := []struct {
		name   string
		caller string
		want   string
	}{
		{name: "path is shortened", caller: "pkg/parser/parser.go:42", want: "parser.go:42"},
		{name: "bare file", caller: "main.go:7", want: "main.go:7"},
		{name: "no line number", caller: "main.go", want: "main.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, debug.FormatCaller(tt.caller, false))
		})
	}
}

func TestFileNameOfPath(t *testing.T) {
	assert.Equal(t, "file.go", debug.FileNameOfPath("a/b/file.go"))
	assert.Equal(t, "file.go", debug.FileNameOfPath("file.go"))
}
