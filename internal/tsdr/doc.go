// Package tsdr is the HTTP client for the trademark status service and the
// drawing image endpoint. Class codes are deduplicated in first-seen order
// and goods/services descriptions are folded into one pipe-joined string.
package tsdr
