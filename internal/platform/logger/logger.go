package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Logger is a key/value logger over zap's sugared API. Values are passed
// through a redactor before they reach zap.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
	redact        *redactor
}

// Option tweaks a Logger built by New.
type Option func(*options)

type options struct {
	redaction bool
	hashSalt  string
}

// WithRedaction toggles masking of secrets and party identifiers. It is on
// unless disabled.
func WithRedaction(on bool) Option {
	return func(o *options) { o.redaction = on }
}

// WithHashSalt salts the digests written in place of party identifiers.
func WithHashSalt(salt string) Option {
	return func(o *options) { o.hashSalt = strings.TrimSpace(salt) }
}

// New builds a logger for mode: "prod"/"production" logs JSON at Info, "test"
// logs at Warn, anything else is the development console at Info.
func New(mode string, opts ...Option) (*Logger, error) {
	o := options{redaction: true}
	for _, opt := range opts {
		opt(&o)
	}

	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "test":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	var r *redactor
	if o.redaction {
		r = &redactor{salt: o.hashSalt}
	}
	return &Logger{SugaredLogger: zapLogger.Sugar(), redact: r}, nil
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Fatalw(msg, l.redact.kvs(keysAndValues)...)
}

// With returns a child logger that shares the parent's redaction settings.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(l.redact.kvs(keysAndValues)...),
		redact:        l.redact,
	}
}
