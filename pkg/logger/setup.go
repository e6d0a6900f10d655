package logger

// SetupLogger builds a logger for CLI use from flag values.
func SetupLogger(logLevel string, logJSON bool) Logger {
	var level LogLevel
	switch logLevel {
	case "debug":
		level = DebugLevel
	case "info":
		level = InfoLevel
	case "warn":
		level = WarnLevel
	case "error":
		level = ErrorLevel
	default:
		level = InfoLevel
	}

	cfg := DefaultConfig()
	cfg.Level = level
	cfg.JSON = logJSON
	return NewLogger(cfg)
}
