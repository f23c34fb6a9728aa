// Package api holds the HTTP layer: request decoding and validation,
// handlers for auth, documents, and generated study materials, and the
// mapping of service errors onto response codes. Handlers stay thin and
// delegate all business decisions to the service layer.
package api
