package metrics

import "go.uber.org/zap"

// logger is the registry's internal diagnostic sink: invariant violations
// found while resolving a container are reported here. The library never
// forces a logging dependency on its callers; the default is a noopLogger.
type logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

func newNoopLogger() logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// zapLogger adapts a *zap.Logger to the logger interface so a host
// application can route registry diagnostics into its own structured
// logging pipeline.
type zapLogger struct {
	l *zap.SugaredLogger
}

// NewZapLogger builds a Registry logger backed by l.
func NewZapLogger(l *zap.Logger) logger {
	return &zapLogger{l: l.Sugar()}
}

func (z *zapLogger) Debugf(format string, args ...interface{}) { z.l.Debugf(format, args...) }
func (z *zapLogger) Infof(format string, args ...interface{})  { z.l.Infof(format, args...) }
func (z *zapLogger) Warnf(format string, args ...interface{})  { z.l.Warnf(format, args...) }
func (z *zapLogger) Errorf(format string, args ...interface{}) { z.l.Errorf(format, args...) }
