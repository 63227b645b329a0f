package logger

import "go.uber.org/zap"

// Logger wraps zap with the small surface this service needs.
type Logger struct {
	*zap.Logger
}

// New creates a logger. env "production" selects the JSON production
// encoder; anything else gets the development console encoder. An
// unparseable level falls back to info.
func New(level, env string) (*Logger, error) {
	var zapConfig zap.Config
	if env == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil {
		parsed = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = parsed

	zapLogger, err := zapConfig.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: zapLogger}, nil
}

// With adds fields to the logger
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(name string) *Logger {
	return l.With(zap.String("component", name))
}

// Nop returns a logger that discards everything, for tests.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}
