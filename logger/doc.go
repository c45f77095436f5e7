// Package logger provides structured logging for transflow using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. Pipelines, publishers
// and the component container all log through this package.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("flow")
//	log.Info("pipeline finished", logger.Fields(logger.FieldPipeline, p.String()))
package logger
