// Package logger provides structured logging for restkit over zerolog.
//
// The client core logs attempt and retry decisions at debug level through
// an injected *Logger; applications embedding restkit pass their own
// instance or leave the default no-op logger in place.
//
//	log := logger.NewDefault("restkit")
//	c, _ := client.New(cfg, client.WithLogger(log))
package logger
