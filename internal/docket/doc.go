// Package docket extracts structured case data from proceeding and search
// result pages. Markup is first normalized into flat rows of labeled cells;
// a small state machine then walks the pleaded section, so the boundary
// logic is testable without real pages. Pages with no recognizable sections
// parse to zero marks rather than errors.
package docket
