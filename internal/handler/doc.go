// Package handler provides HTTP request handlers for the Gatherly API.
//
// The handler package contains all HTTP endpoint implementations organized
// by domain. Each handler struct encapsulates the service it serves plus,
// where mutations must reach websocket clients, the realtime hub.
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts its dependencies
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize the envelope
//   - Errors are mapped through MapServiceError to consistent status codes
//
// # Response Format
//
// Every response is an Envelope:
//
//	{"success": true, "data": {...}}
//	{"success": false, "error": "event is full"}
//
// # Authentication
//
// Most handlers require authentication via JWT bearer tokens. The auth
// middleware extracts the user ID and makes it available via
// middleware.GetUserID(ctx).
//
// # Realtime Parity
//
// Mutations that change shared state (messages, ballots, RSVPs) broadcast
// through the same hub the websocket bridge uses. A change is visible to
// connected clients regardless of which surface performed it.
package handler
