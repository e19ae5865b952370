// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Handlers write through these helpers so every body is JSON and every error
// uses the same {"message": ..., "errors": ...} envelope.
package httputil
