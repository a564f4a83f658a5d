// Package realtime implements the websocket fan-out layer.
//
// The Hub tracks connected clients and their room subscriptions, keyed by
// group id. Messages fan out through per-client buffered send channels; a
// client that cannot keep up has frames dropped rather than blocking the
// broadcaster.
//
// The Bridge sits between client intents and the service layer. Every
// intent received over a websocket is dispatched to the same service
// method the HTTP handlers call, so both paths enforce identical
// invariants. Successful mutations broadcast an event; failures are
// reported only to the originating client.
//
// # Broadcast Scopes
//
// Chat messages and attendance changes for group-scoped events fan out to
// the group room. Poll updates and attendance changes for ungrouped events
// fan out to every connected client, so dashboards showing cross-group
// tallies stay current without a room subscription.
package realtime
