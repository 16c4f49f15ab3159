// Package api exposes the assistant over HTTP.
//
// Two authenticated endpoints carry the whole product: POST
// /api/assistant/stream runs one conversation turn and streams frames back as
// Server-Sent Events, and GET /api/categories serves the category directory.
// Unauthenticated /health and /ready probes sit outside the middleware stack.
//
// The server is stateless: every stream request carries the full conversation
// history, and the owner identity comes from the bearer token, never from the
// request body.
package api
