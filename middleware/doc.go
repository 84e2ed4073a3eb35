// Package middleware adapts the authentication engine to net/http: bearer
// token extraction, device and tenant propagation, request-scoped principal
// installation, and declarative per-route rate limiting.
//
// # What this package must NOT do
//
//   - Make authentication or admission decisions itself (the Engine owns
//     both; this package only extracts request attributes and renders
//     rejections).
//   - Depend on any web framework beyond net/http.
package middleware
