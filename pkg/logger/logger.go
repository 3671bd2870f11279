package logger

import (
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Config is read from the environment. APP_ENV picks the defaults:
// production and staging log JSON at info, anything else logs text at debug.
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"SERVICE_NAME" envDefault:"mailcraft"`
	Level   string `env:"LOG_LEVEL"`
	Format  string `env:"LOG_FORMAT"`
}

// Options converts cfg into options for New. LOG_LEVEL and LOG_FORMAT win
// over the environment defaults; unknown values are ignored.
func (cfg Config) Options() []Option {
	opts := []Option{WithEnvironment(cfg.Env)}
	if cfg.Service != "" {
		opts = append(opts, WithAttr(slog.String("service", cfg.Service)))
	}
	if lvl, ok := ParseLevel(cfg.Level); ok {
		opts = append(opts, WithLevel(lvl))
	}
	if f := Format(strings.ToLower(cfg.Format)); f == FormatJSON || f == FormatText {
		opts = append(opts, WithFormat(f))
	}
	return opts
}

// ParseLevel accepts debug, info, warn/warning and error in any case.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Redacted replaces the value of any attribute whose key is in the redact set.
const Redacted = "[REDACTED]"

// DefaultRedactKeys are attribute keys that may carry credentials.
var DefaultRedactKeys = []string{
	"access_token",
	"refresh_token",
	"authorization",
	"api_key",
	"client_secret",
	"encryption_key",
	"password",
}

type Option func(*options)

type options struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
	redact     []string
	source     bool
}

func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

func WithFormat(f Format) Option {
	return func(o *options) {
		if f == FormatJSON || f == FormatText {
			o.format = f
		}
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// WithContextExtractors adds attributes taken from each record's context.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) { o.extractors = append(o.extractors, extractors...) }
}

// WithRedactKeys adds keys to DefaultRedactKeys. Matching is case-insensitive
// and applies inside groups too.
func WithRedactKeys(keys ...string) Option {
	return func(o *options) {
		for _, k := range keys {
			o.redact = append(o.redact, strings.ToLower(k))
		}
	}
}

// WithSource adds the caller's file and line.
func WithSource() Option {
	return func(o *options) { o.source = true }
}

// WithEnvironment applies the defaults for env and tags records with it.
func WithEnvironment(env string) Option {
	return func(o *options) {
		switch strings.ToLower(env) {
		case "production", "prod":
			o.level, o.format = slog.LevelInfo, FormatJSON
			env = "production"
		case "staging", "stage":
			o.level, o.format = slog.LevelInfo, FormatJSON
			env = "staging"
		default:
			o.level, o.format = slog.LevelDebug, FormatText
			env = "development"
		}
		o.attrs = append(o.attrs, slog.String("env", env))
	}
}

// New builds a logger. Without options it writes JSON at info level to stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
		redact: slices.Clone(DefaultRedactKeys),
	}
	for _, opt := range opts {
		opt(o)
	}

	hopts := &slog.HandlerOptions{
		Level:       o.level,
		AddSource:   o.source,
		ReplaceAttr: redactor(o.redact),
	}

	var h slog.Handler
	if o.format == FormatText {
		h = slog.NewTextHandler(o.output, hopts)
	} else {
		h = slog.NewJSONHandler(o.output, hopts)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}
	return slog.New(NewContextHandler(h, o.extractors...))
}

func redactor(keys []string) func([]string, slog.Attr) slog.Attr {
	return func(_ []string, a slog.Attr) slog.Attr {
		if a.Value.Kind() != slog.KindGroup && slices.Contains(keys, strings.ToLower(a.Key)) {
			return slog.String(a.Key, Redacted)
		}
		return a
	}
}
