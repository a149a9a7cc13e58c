// Package errors provides the classified error primitives used across xmldocmd.
//
// Key features:
//   - ErrorCategory: broad classification (config, comments, signature, render, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing messages for the CLI
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategorySignature, "cannot build member signature").
//		WithContext("type", "T:Acme.Widget").
//		WithContext("member", "Do").
//		Build()
package errors
