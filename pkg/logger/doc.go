// Package logger is a thin factory over log/slog with environment-driven
// configuration.
//
// It produces JSON output at INFO level by default, matching what log
// aggregation systems expect in production; development setups switch to the
// text format via LOG_FORMAT=text or WithFormat.
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithAttr(slog.String("service", "leadflow")),
//	)
package logger
