// Package fetch provides the shared HTTP executor used by the TTABVUE,
// TSDR, and vision clients. It retries transient failures with bounded
// exponential backoff, honors Retry-After headers, and exposes a sleeper
// hook so tests never wait on real clocks.
package fetch
