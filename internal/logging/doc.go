// Package logging wraps log/slog with the handlers and attribute helpers used
// across the pipeline: a console handler for interactive use, a JSON handler
// for machine consumption, and context helpers that stamp run/case/serial
// identifiers onto every record emitted while a unit of work is in flight.
package logging
