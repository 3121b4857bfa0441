// Package log provides logging for logoscan, built on top of the
// standard slog package.
//
// The RedactHandler masks credential-bearing attributes before they reach
// the underlying handler. Per-site configuration may carry cookies or
// authorization headers for gated pages, and those values travel through
// the fetch path as ordinary log attributes; masking them here means no
// call site has to remember to. Oversized attribute values (page bodies,
// long URL lists) are truncated so verbose logs stay readable.
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Info("page fetched",
//	    "cookie", "session=abc123", // masked
//	    "url", "https://acme.com",
//	)
package log
