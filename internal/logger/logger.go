package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Logger is the process-wide logger. It discards everything until Init runs.
var Logger = zerolog.Nop()

// Init initializes the global logger. Development output is human-readable;
// anything else is JSON on stderr.
func Init(serviceName string, isDevelopment bool) {
	var output io.Writer = os.Stderr
	if isDevelopment {
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}
	}
	Logger = New(output, serviceName)

	// Set as global logger
	log.Logger = Logger
}

// New builds a logger that writes to w.
func New(w io.Writer, serviceName string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// WithContext returns a logger with trace information from context
func WithContext(ctx context.Context) *zerolog.Logger {
	return Annotate(ctx, Logger)
}

// Annotate adds the trace and span ids of ctx, when present, to l.
func Annotate(ctx context.Context, l zerolog.Logger) *zerolog.Logger {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		l = l.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}
	return &l
}

// SetLevel sets the global log level. Unknown names select info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
