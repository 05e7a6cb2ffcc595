// Package api adapts HTTP requests to the application services. Handlers
// decode and validate request bodies, read the authenticated user placed in
// the context by middleware, and map service errors to the JSON error
// envelope through HandleAPIError.
package api
