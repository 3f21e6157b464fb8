// Package logging carries the structured logging conventions shared across
// the usaspending-mcp codebase, built on the standard library's slog.
//
// It defines the canonical attribute keys and constructors so the same
// concept always logs under the same name regardless of which package
// emits it, a minimal Logger interface for components that should not
// depend on a concrete handler, and reducers for values that must not be
// logged raw: EndpointPath strips request URLs down to their path, and
// SanitizeKey replaces a Nostr private key with a length indicator.
//
// Typical call sites:
//
//	logger := logging.WithOperation(slog.Default(), "spending.search")
//	logger.Info("search completed", logging.Status("success"))
//
//	logger.Debug("upstream request",
//	    logging.Endpoint(logging.EndpointPath(url)))
package logging
