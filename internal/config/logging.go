package config

import "go.uber.org/zap/zapcore"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ValidLevels lists the accepted log levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// ParseLevel maps a configured level name to a zap level.
func ParseLevel(level string) (zapcore.Level, bool) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.WarnLevel, false
	}
}

// ZapLevel returns the configured level, falling back to warn.
func (c LoggingConfig) ZapLevel() zapcore.Level {
	lvl, _ := ParseLevel(c.Level)
	return lvl
}
