package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the minimal structured logging surface the components depend on.
// Every entry carries a stable event code alongside the human message so log
// pipelines can filter without parsing messages.
type Logger interface {
	DebugObj(msg, code string, fields map[string]any)
	InfoObj(msg, code string, fields map[string]any)
	WarnObj(msg, code string, fields map[string]any)
	ErrorObj(msg, code string, fields map[string]any)
}

// NopLogger discards everything. Components default to it when given nil.
type NopLogger struct{}

func (NopLogger) DebugObj(string, string, map[string]any) {}
func (NopLogger) InfoObj(string, string, map[string]any)  {}
func (NopLogger) WarnObj(string, string, map[string]any)  {}
func (NopLogger) ErrorObj(string, string, map[string]any) {}

// zapLogger adapts a zap.Logger to the Logger interface.
type zapLogger struct {
	log *zap.Logger
}

// New builds a production zap-backed logger. Level accepts the usual zap
// level names; unknown values fall back to info.
func New(level string) (Logger, error) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &zapLogger{log: log}, nil
}

func (l *zapLogger) DebugObj(msg, code string, fields map[string]any) {
	l.log.Debug(msg, zapFields(code, fields)...)
}

func (l *zapLogger) InfoObj(msg, code string, fields map[string]any) {
	l.log.Info(msg, zapFields(code, fields)...)
}

func (l *zapLogger) WarnObj(msg, code string, fields map[string]any) {
	l.log.Warn(msg, zapFields(code, fields)...)
}

func (l *zapLogger) ErrorObj(msg, code string, fields map[string]any) {
	l.log.Error(msg, zapFields(code, fields)...)
}

func zapFields(code string, fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	out = append(out, zap.String("code", code))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// Ensure returns log unchanged unless it is nil, in which case the nop
// logger is substituted.
func Ensure(log Logger) Logger {
	if log == nil {
		return NopLogger{}
	}
	return log
}
